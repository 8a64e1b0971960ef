package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/identity"
)

// SendMessage appends a user message to a thread and schedules the agent's
// reply. It returns as soon as the reply is enqueued.
func (e *Engine) SendMessage(ctx context.Context, threadID, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrBlankContent
	}

	e.mu.Lock()
	t, ok := e.byID[threadID]
	if !ok {
		e.mu.Unlock()
		return Message{}, ErrUnknownThread
	}
	msg := e.appendLocked(t, e.registry.User(), content)
	e.mu.Unlock()

	entry := newEntry(activity.TypeMessageSent, msg.ProjectID, msg.ThreadID, fmt.Sprintf("user message in %s", msg.ThreadID))
	entry.MessageID = &msg.ID
	e.record(ctx, []activity.ActivityEntry{entry})

	if err := e.scheduleReply(ctx, threadID, content); err != nil {
		return msg, fmt.Errorf("scheduling reply: %w", err)
	}
	return msg, nil
}

// MarkThreadRead marks every message in the thread as read. It is idempotent.
func (e *Engine) MarkThreadRead(ctx context.Context, threadID string) error {
	e.mu.Lock()
	t, ok := e.byID[threadID]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownThread
	}
	marked := e.markReadLocked(t.ID)
	e.mu.Unlock()

	if marked > 0 {
		e.record(ctx, []activity.ActivityEntry{
			newEntry(activity.TypeThreadRead, t.ProjectID, t.ID, fmt.Sprintf("marked %d messages read", marked)),
		})
	}
	return nil
}

// appendLocked adds a message to t. Agent messages are read only when they
// land in the active thread.
func (e *Engine) appendLocked(t *Thread, sender identity.Participant, content string) Message {
	e.seq++
	read := !sender.IsAgent || e.activeThreadID == t.ID
	msg := Message{
		ID:        uuid.NewString(),
		ThreadID:  t.ID,
		ProjectID: t.ProjectID,
		Content:   content,
		Sender:    sender,
		Timestamp: e.now(),
		Read:      read,
		Seq:       e.seq,
	}
	e.messages[t.ID] = append(e.messages[t.ID], msg)
	return msg
}

func (e *Engine) markReadLocked(threadID string) int {
	msgs := e.messages[threadID]
	marked := 0
	for i := range msgs {
		if !msgs[i].Read {
			msgs[i].Read = true
			marked++
		}
	}
	return marked
}
