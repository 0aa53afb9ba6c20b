package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// Task is the wire form of a marketplace task. Location is carried verbatim;
// the client never looks inside it.
type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status,omitempty"`
	Location    json.RawMessage `json:"location,omitempty"`
	Reward      *float64        `json:"reward,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	AssignedTo  string          `json:"assigned_to,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// TaskPatch is a partial task for create and update calls. Nil fields are
// omitted from the payload and left untouched by the server.
type TaskPatch struct {
	ID          string          `json:"id,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Location    json.RawMessage `json:"location,omitempty"`
	Reward      *float64        `json:"reward,omitempty"`
	AssignedTo  *string         `json:"assigned_to,omitempty"`
}

type Profile struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role,omitempty"`
	Onboarding bool      `json:"onboarding"`
	AvatarPath string    `json:"avatar_path,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

type OnboardingRequest struct {
	Onboarding bool   `json:"onboarding"`
	FullName   string `json:"full_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

type AvatarUpload struct {
	SignedURL string `json:"signedUrl"`
	Path      string `json:"path"`
}

type SignedAvatar struct {
	SignedURL string `json:"signedUrl"`
	Path      string `json:"path"`
	ExpiresIn int    `json:"expiresIn"`
}

// APIError is a non-2xx response decoded from the server's {error} shape.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// UnwrapTasks normalizes the historical response shapes into a task slice:
// a {data: ...} envelope, a bare array, or a single object. Anything else
// comes back empty.
func UnwrapTasks(body []byte) []Task {
	payload := body

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		payload = env.Data
	}

	var list []Task
	if err := json.Unmarshal(payload, &list); err == nil {
		if list == nil {
			return []Task{}
		}
		return list
	}

	var one Task
	if err := json.Unmarshal(payload, &one); err == nil && one.ID != "" {
		return []Task{one}
	}

	return []Task{}
}
