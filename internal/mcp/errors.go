package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
)

// ErrUnknownMethod is returned for methods the handler does not dispatch.
var ErrUnknownMethod = errors.New("unknown method")

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

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, chat.ErrUnknownThread):
		return &APIError{Code: "THREAD_NOT_FOUND", Message: "thread not found", RecoveryHint: "Call list_threads to find a valid thread_id"}
	case errors.Is(err, chat.ErrBlankContent):
		return &APIError{Code: "BLANK_CONTENT", Message: "message content is blank", RecoveryHint: "Send non-whitespace content"}
	case errors.Is(err, chat.ErrProtectedThread):
		return &APIError{Code: "PROTECTED_THREAD", Message: "primary thread cannot be deleted", RecoveryHint: "Delete a non-main thread instead"}
	case errors.Is(err, chat.ErrThreadProjectMismatch):
		return &APIError{Code: "PROJECT_MISMATCH", Message: "thread belongs to another project", RecoveryHint: "Call set_active_project for the thread's project first"}
	case errors.Is(err, chat.ErrDuplicatePrimary):
		return &APIError{Code: "DUPLICATE_PRIMARY", Message: "project already has a primary thread", RecoveryHint: "Use a non-main agent_type"}
	case errors.Is(err, chat.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check required arguments"}
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "UNKNOWN_METHOD", Message: err.Error(), RecoveryHint: "Call tools/list for available methods"}
	default:
		return nil
	}
}
