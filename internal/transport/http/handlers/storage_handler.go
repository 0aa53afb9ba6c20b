package handlers

import (
	"errors"
	"strconv"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/core/services"
	"github.com/NoelOsiro/tuma-task-api/internal/infrastructure/logger"
	"github.com/NoelOsiro/tuma-task-api/internal/transport/http/dto"
	"github.com/gofiber/fiber/v2"
)

// StorageHandler serves objects referenced by signed URLs. The signature and
// expiry minted by the storage service are the only access control here.
type StorageHandler struct {
	storage ports.StorageService
	logger  *logger.Logger
}

func NewStorageHandler(storage ports.StorageService, logger *logger.Logger) *StorageHandler {
	return &StorageHandler{storage: storage, logger: logger}
}

// GetObject handles GET /storage/:bucket/*?expires=&token=
func (h *StorageHandler) GetObject(c *fiber.Ctx) error {
	bucket := c.Params("bucket")
	path := c.Params("*")
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "missing expires parameter",
		})
	}
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "missing token parameter",
		})
	}

	if err := h.storage.Verify(bucket, path, expires, token); err != nil {
		h.logger.Warnw("storage_verify_failed", "bucket", bucket, "path", path, "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	object, err := h.storage.Open(path)
	if err != nil {
		if errors.Is(err, services.ErrStorageObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "object not found",
			})
		}
		h.logger.Errorw("storage_open_failed", "path", path, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	}

	c.Set("Cache-Control", "private, max-age=0")
	return c.SendStream(object)
}
