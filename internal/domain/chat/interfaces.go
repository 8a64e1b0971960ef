package chat

import (
	"context"

	"github.com/rpggio/threadhub/internal/domain/activity"
)

// Notifier receives reply notifications for threads that are not active.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ActivityLogger journals engine events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
