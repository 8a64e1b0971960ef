package mcp

import (
	"time"

	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/domain/identity"
)

type CreateThreadParams struct {
	Name        string             `json:"name"`
	ProjectID   string             `json:"project_id"`
	Description string             `json:"description,omitempty"`
	Icon        string             `json:"icon,omitempty"`
	AgentType   identity.AgentType `json:"agent_type,omitempty"`
}

type ProjectParams struct {
	ProjectID string `json:"project_id"`
}

type ThreadParams struct {
	ThreadID string `json:"thread_id"`
}

type SendMessageParams struct {
	ThreadID string `json:"thread_id"`
	Content  string `json:"content"`
}

type RenameThreadParams struct {
	ThreadID string `json:"thread_id"`
	Name     string `json:"name"`
}

type PinThreadParams struct {
	ThreadID string `json:"thread_id"`
	Pinned   *bool  `json:"pinned,omitempty"`
}

type SearchMessagesParams struct {
	Query     string `json:"query"`
	ThreadID  string `json:"thread_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

type ListThreadsParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Sort      string `json:"sort,omitempty"`
}

type ListThreadsByAgentParams struct {
	AgentType identity.AgentType `json:"agent_type"`
	ProjectID string             `json:"project_id,omitempty"`
}

type GetRecentActivityParams struct {
	ProjectID string                 `json:"project_id,omitempty"`
	ThreadID  *string                `json:"thread_id,omitempty"`
	Type      *activity.ActivityType `json:"type,omitempty"`
	Limit     int                    `json:"limit,omitempty"`
	Offset    int                    `json:"offset,omitempty"`
}

type SendMessageResponse struct {
	Message      chat.Message `json:"message"`
	ReplyPending bool         `json:"reply_pending"`
	Warning      string       `json:"warning,omitempty"`
}

type ActiveThreadsResponse struct {
	ActiveProjectID string        `json:"active_project_id,omitempty"`
	ActiveThread    *chat.Thread  `json:"active_thread,omitempty"`
	Threads         []chat.Thread `json:"threads"`
	UnreadTotal     int           `json:"unread_total"`
}

type ThreadMessagesResponse struct {
	Thread   chat.Thread    `json:"thread"`
	Messages []chat.Message `json:"messages"`
}

type StatusResponse struct {
	Status   string `json:"status"`
	ThreadID string `json:"thread_id,omitempty"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	ProjectID string                `json:"project_id"`
	ThreadID  *string               `json:"thread_id,omitempty"`
	MessageID *string               `json:"message_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}
