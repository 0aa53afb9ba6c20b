package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ==================== ENUMS ====================

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type ProfileRole string

const (
	ProfileRolePoster ProfileRole = "poster"
	ProfileRoleTasker ProfileRole = "tasker"
	ProfileRoleAdmin  ProfileRole = "admin"
)

// ==================== JSONB TYPES ====================

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan JSONB: invalid type")
	}
	return json.Unmarshal(bytes, j)
}

// ==================== ENTITIES ====================

// Task is a unit of work posted on the marketplace. The location payload is
// stored verbatim; the API never inspects it.
type Task struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus `gorm:"size:20;not null;default:'open';index" json:"status"`
	Location    JSONB      `gorm:"type:jsonb" json:"location,omitempty"`
	Reward      *float64   `gorm:"type:numeric(10,2)" json:"reward,omitempty"`
	CreatedBy   string     `gorm:"type:uuid;index" json:"created_by,omitempty"`
	AssignedTo  string     `gorm:"type:uuid" json:"assigned_to,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = TaskStatusOpen
	}
	return nil
}

// Profile mirrors the auth user. Its ID is the auth subject, never generated
// locally.
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FullName   string      `gorm:"size:255" json:"full_name,omitempty"`
	Phone      string      `gorm:"size:32" json:"phone,omitempty"`
	Role       ProfileRole `gorm:"size:20;default:'tasker'" json:"role,omitempty"`
	Onboarding bool        `gorm:"not null;default:false" json:"onboarding"`
	AvatarPath string      `gorm:"size:512" json:"avatar_path,omitempty"`
}
