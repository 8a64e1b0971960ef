package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/queue"
)

// ReplyTaskType is the queue task name for delivering an agent reply.
const ReplyTaskType = "chat:deliver_reply"

// ReplyQueue is the queue reply tasks are enqueued on.
const ReplyQueue = "chat"

// ReplyTaskPayload is the JSON payload transported via the queue.
type ReplyTaskPayload struct {
	ThreadID string `json:"threadId"`
	Trigger  string `json:"trigger"`
}

// RegisterReplyTask binds reply delivery for e to srv.
func RegisterReplyTask(srv queue.Server, e *Engine) {
	srv.Register(ReplyTaskType, func(ctx context.Context, t queue.Task) error {
		var p ReplyTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return fmt.Errorf("decoding reply payload: %w", err)
		}
		return e.DeliverReply(ctx, p.ThreadID, p.Trigger)
	})
}

func (e *Engine) scheduleReply(ctx context.Context, threadID, trigger string) error {
	if e.queue == nil {
		e.logger.Warn("no reply queue configured, skipping reply", "thread_id", threadID)
		return nil
	}
	payload, err := json.Marshal(ReplyTaskPayload{ThreadID: threadID, Trigger: trigger})
	if err != nil {
		return err
	}
	id, err := e.queue.Enqueue(ctx, queue.Task{Type: ReplyTaskType, Payload: payload},
		queue.EnqueueOption{Queue: ReplyQueue, ProcessIn: e.replyDelay})
	if err != nil {
		return err
	}
	e.logger.Debug("reply scheduled", "thread_id", threadID, "task_id", id, "delay", e.replyDelay)
	return nil
}

// DeliverReply appends the thread persona's reply to trigger. Replies for
// threads deleted in the meantime are dropped. When the thread is not active
// the notifier is told; its failures are logged and never returned.
func (e *Engine) DeliverReply(ctx context.Context, threadID, trigger string) error {
	e.mu.Lock()
	t, ok := e.byID[threadID]
	if !ok {
		e.mu.Unlock()
		e.logger.Info("dropping reply for deleted thread", "thread_id", threadID)
		e.record(ctx, []activity.ActivityEntry{
			newEntry(activity.TypeReplyDropped, "", threadID, "thread no longer exists"),
		})
		return nil
	}
	persona := e.registry.AgentOrMain(t.AgentType)
	msg := e.appendLocked(t, persona, composeReply(t.AgentType, persona, t.ProjectID, trigger))
	active := e.activeThreadID == t.ID
	threadName := t.Name
	e.mu.Unlock()

	delivered := newEntry(activity.TypeReplyDelivered, msg.ProjectID, msg.ThreadID,
		fmt.Sprintf("%s replied in %s", persona.DisplayName, threadName))
	delivered.MessageID = &msg.ID
	entries := []activity.ActivityEntry{delivered}

	if !active && e.notifier != nil {
		n := Notification{
			ThreadID:   msg.ThreadID,
			ProjectID:  msg.ProjectID,
			ThreadName: threadName,
			SenderName: persona.DisplayName,
			Preview:    preview(msg.Content, e.previewLen),
		}
		n.Title = n.ThreadName
		n.Body = n.SenderName + ": " + n.Preview
		if err := e.notifier.Notify(ctx, n); err != nil {
			e.logger.Warn("notification failed", "thread_id", msg.ThreadID, "error", err)
		} else {
			sent := newEntry(activity.TypeNotificationSent, msg.ProjectID, msg.ThreadID, n.Body)
			sent.MessageID = &msg.ID
			entries = append(entries, sent)
		}
	}

	e.record(ctx, entries)
	return nil
}
