package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue is an in-process Client and Server backed by timers.
// Tasks are not retried and do not survive Stop.
type MemoryQueue struct {
	mu       sync.Mutex
	handlers map[string]Handler
	pending  map[string]*time.Timer
	closed   bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

var (
	_ Client = (*MemoryQueue)(nil)
	_ Server = (*MemoryQueue)(nil)
)

// NewMemoryQueue creates a ready-to-use in-memory queue.
func NewMemoryQueue(logger *slog.Logger) *MemoryQueue {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MemoryQueue{
		handlers: make(map[string]Handler),
		pending:  make(map[string]*time.Timer),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Register binds a handler to a task type, replacing any previous one.
func (q *MemoryQueue) Register(taskType string, h Handler) {
	q.mu.Lock()
	q.handlers[taskType] = h
	q.mu.Unlock()
}

// Enqueue schedules t according to the first option's delay.
func (q *MemoryQueue) Enqueue(_ context.Context, t Task, opts ...EnqueueOption) (string, error) {
	if t.Type == "" {
		return "", ErrMissingType
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return "", ErrClosed
	}

	id := uuid.NewString()
	q.wg.Add(1)
	q.pending[id] = time.AfterFunc(delayOf(time.Now(), opts), func() {
		q.fire(id, t)
	})
	return id, nil
}

// Pending returns the number of tasks waiting for their timer.
func (q *MemoryQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run blocks until ctx is canceled, then stops the queue.
func (q *MemoryQueue) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-q.ctx.Done():
	}
	return q.Stop(context.Background())
}

// Stop drops tasks that have not fired and waits for running handlers.
func (q *MemoryQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		dropped := 0
		for id, timer := range q.pending {
			if timer.Stop() {
				dropped++
				q.wg.Done()
			}
			delete(q.pending, id)
		}
		if dropped > 0 {
			q.logger.Debug("queue stopped with pending tasks", "dropped", dropped)
		}
	}
	q.mu.Unlock()
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements Client.
func (q *MemoryQueue) Close() error {
	return q.Stop(context.Background())
}

func (q *MemoryQueue) fire(id string, t Task) {
	defer q.wg.Done()

	q.mu.Lock()
	delete(q.pending, id)
	closed := q.closed
	h := q.handlers[t.Type]
	q.mu.Unlock()

	if closed {
		return
	}
	if h == nil {
		q.logger.Warn("no handler registered for task", "type", t.Type, "task_id", id)
		return
	}
	if err := h(q.ctx, t); err != nil {
		q.logger.Error("task failed", "type", t.Type, "task_id", id, "error", err)
	}
}
