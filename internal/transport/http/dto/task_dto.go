package dto

import (
	"strings"

	"github.com/NoelOsiro/tuma-task-api/internal/core/ports"
	"github.com/NoelOsiro/tuma-task-api/internal/domain"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// DataResponse is the envelope every successful endpoint answers with.
type DataResponse struct {
	Data interface{} `json:"data"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Location    domain.JSONB `json:"location"`
	Reward      *float64     `json:"reward"`
	CreatedBy   string       `json:"created_by"`
	AssignedTo  string       `json:"assigned_to"`
}

func (r *CreateTaskRequest) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "title is required"
	}
	if r.Status != "" && !domain.TaskStatus(r.Status).Valid() {
		errs["status"] = "unknown status"
	}
	if r.Reward != nil && *r.Reward < 0 {
		errs["reward"] = "reward must be non-negative"
	}
	return errs
}

func (r *CreateTaskRequest) ToInput() ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Location:    r.Location,
		Reward:      r.Reward,
		CreatedBy:   r.CreatedBy,
		AssignedTo:  r.AssignedTo,
	}
}

type UpdateTaskRequest struct {
	ID          string       `json:"id"`
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Location    domain.JSONB `json:"location"`
	Reward      *float64     `json:"reward"`
	AssignedTo  *string      `json:"assigned_to"`
}

func (r *UpdateTaskRequest) ToInput() ports.UpdateTaskInput {
	input := ports.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Reward:      r.Reward,
		AssignedTo:  r.AssignedTo,
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		input.Status = &status
	}
	return input
}

type SearchTasksRequest struct {
	Q string `json:"q"`
}
