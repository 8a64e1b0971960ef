package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeThreadCreated    ActivityType = "thread_created"
	TypeThreadRenamed    ActivityType = "thread_renamed"
	TypeThreadPinned     ActivityType = "thread_pinned"
	TypeThreadUnpinned   ActivityType = "thread_unpinned"
	TypeThreadDeleted    ActivityType = "thread_deleted"
	TypeThreadActivated  ActivityType = "thread_activated"
	TypeThreadRead       ActivityType = "thread_read"
	TypeProjectActivated ActivityType = "project_activated"
	TypeMessageSent      ActivityType = "message_sent"
	TypeReplyDelivered   ActivityType = "reply_delivered"
	TypeReplyDropped     ActivityType = "reply_dropped"
	TypeNotificationSent ActivityType = "notification_sent"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ProjectID    string       `json:"project_id"`
	ThreadID     *string      `json:"thread_id,omitempty"`
	MessageID    *string      `json:"message_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
