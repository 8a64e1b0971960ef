package chat

import "errors"

var (
	// ErrBlankContent indicates a send with empty or whitespace-only content.
	ErrBlankContent = errors.New("message content is blank")
	// ErrUnknownThread indicates the referenced thread doesn't exist.
	ErrUnknownThread = errors.New("thread not found")
	// ErrProtectedThread indicates an attempt to delete a primary thread.
	ErrProtectedThread = errors.New("primary thread cannot be deleted")
	// ErrThreadProjectMismatch indicates the thread is outside the active project.
	ErrThreadProjectMismatch = errors.New("thread does not belong to the active project")
	// ErrDuplicatePrimary indicates the project already has a primary thread.
	ErrDuplicatePrimary = errors.New("project already has a primary thread")
	// ErrInvalidInput indicates invalid chat input.
	ErrInvalidInput = errors.New("invalid chat input")
)
