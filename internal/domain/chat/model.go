package chat

import (
	"time"

	"github.com/rpggio/threadhub/internal/domain/identity"
)

// Message is an entry in a thread's append-only log. Only Read ever changes,
// and only from false to true.
type Message struct {
	ID        string               `json:"id"`
	ThreadID  string               `json:"thread_id"`
	ProjectID string               `json:"project_id"`
	Content   string               `json:"content"`
	Sender    identity.Participant `json:"sender"`
	Timestamp time.Time            `json:"timestamp"`
	Read      bool                 `json:"read"`
	Seq       int64                `json:"seq"`
}

// Thread is a project-scoped conversation bound to at most one agent persona.
// UnreadCount and LastActivity are derived from the message log on every read.
type Thread struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	Icon         string                 `json:"icon,omitempty"`
	ProjectID    string                 `json:"project_id"`
	AgentType    identity.AgentType     `json:"agent_type,omitempty"`
	Participants []identity.Participant `json:"participants"`
	Pinned       bool                   `json:"pinned"`
	CreatedAt    time.Time              `json:"created_at"`
	UnreadCount  int                    `json:"unread_count"`
	LastActivity time.Time              `json:"last_activity"`
}

// IsPrimary reports whether t is its project's primary thread.
func (t Thread) IsPrimary() bool {
	return t.AgentType == identity.AgentMain
}

// CreateThreadRequest describes a thread creation request.
type CreateThreadRequest struct {
	Name        string
	ProjectID   string
	Description string
	Icon        string
	AgentType   identity.AgentType
}

// SearchOptions scopes a search. ThreadID wins over ProjectID; both empty
// searches every thread.
type SearchOptions struct {
	ThreadID  string
	ProjectID string
}

// Notification is emitted when a reply lands in a thread the user is not viewing.
type Notification struct {
	ThreadID   string `json:"thread_id"`
	ProjectID  string `json:"project_id"`
	ThreadName string `json:"thread_name"`
	SenderName string `json:"sender_name"`
	Preview    string `json:"preview"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}
