// Package notify provides chat.Notifier sinks that are not tied to a transport.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rpggio/threadhub/internal/domain/chat"
)

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements chat.Notifier.
func (n *LogNotifier) Notify(ctx context.Context, note chat.Notification) error {
	n.logger.InfoContext(ctx, "notification",
		"title", note.Title,
		"body", note.Body,
		"thread_id", note.ThreadID,
		"project_id", note.ProjectID,
	)
	return nil
}

// Fanout delivers each notification to every sink, even when some fail.
type Fanout []chat.Notifier

// Notify implements chat.Notifier. The returned error joins every sink failure.
func (f Fanout) Notify(ctx context.Context, note chat.Notification) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
