package handlers

import (
	"errors"
	"strconv"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/core/services"
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"github.com/NoelOsiro/tuma-task-api/internal/transport/http/dto"
	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	service ports.TaskService
	logger  *logger.Logger
}

func NewTaskHandler(service ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// ListTasks handles GET /api/tasks?limit=&offset=
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	tasks, err := h.service.ListTasks(c.Context(), limit, offset)
	if err != nil {
		h.logger.Errorw("tasks_list_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("tasks_list_success", "count", len(tasks))
	return c.JSON(dto.DataResponse{Data: tasks})
}

// GetTask handles GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	id := c.Params("id")
	task, err := h.service.GetTask(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			h.logger.Warnw("task_get_not_found", "id", id)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "task not found",
			})
		}
		h.logger.Errorw("task_get_failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(dto.DataResponse{Data: task})
}

// CreateTask handles POST /api/tasks/create. The created row is answered as a
// single-element array, matching the insert-returning shape clients expect.
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("task_create_validation_failed", "details", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	h.logger.Infow("task_create_request", "title", req.Title)
	task, err := h.service.CreateTask(c.Context(), req.ToInput())
	if err != nil {
		if errors.Is(err, services.ErrTaskTitleRequired) ||
			errors.Is(err, services.ErrTaskInvalidStatus) ||
			errors.Is(err, services.ErrTaskNegativeReward) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("task_create_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("task_create_success", "id", task.ID)
	return c.Status(fiber.StatusCreated).JSON(dto.DataResponse{Data: []domain.Task{*task}})
}

// UpdateTask handles PUT /api/tasks/update with {id, ...fields}.
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_update_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "missing id in request body",
		})
	}

	task, err := h.service.UpdateTask(c.Context(), req.ID, req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			h.logger.Warnw("task_update_not_found", "id", req.ID)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "task not found",
			})
		case errors.Is(err, services.ErrTaskTitleRequired),
			errors.Is(err, services.ErrTaskInvalidStatus),
			errors.Is(err, services.ErrTaskNegativeReward):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
			})
		}
		h.logger.Errorw("task_update_failed", "id", req.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("task_update_success", "id", task.ID)
	return c.JSON(dto.DataResponse{Data: []domain.Task{*task}})
}

// DeleteTask handles DELETE /api/tasks?id=; the removed row is echoed back as
// confirmation.
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "missing id parameter",
		})
	}

	task, err := h.service.DeleteTask(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			h.logger.Warnw("task_delete_not_found", "id", id)
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "task not found",
			})
		}
		h.logger.Errorw("task_delete_failed", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("task_delete_success", "id", id)
	return c.JSON(dto.DataResponse{Data: []domain.Task{*task}})
}

// SearchTasks handles POST /api/tasks/search with {q}.
func (h *TaskHandler) SearchTasks(c *fiber.Ctx) error {
	var req dto.SearchTasksRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	tasks, err := h.service.SearchTasks(c.Context(), req.Q)
	if err != nil {
		h.logger.Errorw("task_search_failed", "query", req.Q, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	h.logger.Infow("task_search_success", "query", req.Q, "count", len(tasks))
	return c.JSON(dto.DataResponse{Data: tasks})
}
