package services

import "errors"

// Task errors
var (
	ErrTaskNotFound       = errors.New("task: not found")
	ErrTaskTitleRequired  = errors.New("task: title is required")
	ErrTaskInvalidStatus  = errors.New("task: invalid status")
	ErrTaskNegativeReward = errors.New("task: reward must be non-negative")
	ErrTaskInvalidInput   = errors.New("task: invalid input")
)

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile: not found")
	ErrProfileNoAvatar = errors.New("profile: no avatar set")
)

// Storage errors
var (
	ErrStorageNotConfigured  = errors.New("storage: not configured")
	ErrStorageObjectNotFound = errors.New("storage: object not found")
	ErrStorageInvalidPath    = errors.New("storage: invalid object path")
	ErrStorageBadSignature   = errors.New("storage: signature mismatch")
	ErrStorageLinkExpired    = errors.New("storage: signed url expired")
)
