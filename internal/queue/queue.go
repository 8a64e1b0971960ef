package queue

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingType indicates a task was enqueued without a type.
	ErrMissingType = errors.New("queue: task type is required")
	// ErrClosed indicates the queue no longer accepts tasks.
	ErrClosed = errors.New("queue: closed")
)

// Task is a background job with a stable type and opaque payload bytes.
// Payload encoding belongs to the caller.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. Handlers must be idempotent; adapters that retry
// do so when a non-nil error is returned.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior. Zero values mean "unspecified";
// adapters ignore fields their backend cannot express.
type EnqueueOption struct {
	Queue     string        // logical queue name
	ProcessIn time.Duration // delay before processing
	ProcessAt time.Time     // absolute schedule time, wins over ProcessIn
	MaxRetry  int
	Deadline  time.Time
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs workers for registered task types. Run blocks until ctx is
// canceled or Stop is called.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}

// delayOf resolves the first option into a relative delay from now.
func delayOf(now time.Time, opts []EnqueueOption) time.Duration {
	if len(opts) == 0 {
		return 0
	}
	op := opts[0]
	if !op.ProcessAt.IsZero() {
		if d := op.ProcessAt.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	if op.ProcessIn > 0 {
		return op.ProcessIn
	}
	return 0
}
