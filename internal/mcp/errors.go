package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/projectboard/internal/domain/activity"
	"github.com/rpggio/projectboard/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: project.InvalidInputMessage, RecoveryHint: "Check title, description and people bounds"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID spelling or call list_projects"}
	case errors.Is(err, project.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: "status must be active or finished"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid activity query"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

var (
	// ErrUnknownMethod is returned by Handle for unsupported methods.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidParams is returned by Handle when params do not decode.
	ErrInvalidParams = errors.New("invalid params")
)
