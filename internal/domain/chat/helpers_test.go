package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/domain/identity"
	"github.com/stretchr/testify/require"
)

// stepClock advances one second on every reading.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type journal struct {
	mu      sync.Mutex
	entries []activity.ActivityEntry
}

func (j *journal) LogActivity(_ context.Context, entry *activity.ActivityEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, *entry)
	return nil
}

func (j *journal) types() []activity.ActivityType {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]activity.ActivityType, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e.ActivityType)
	}
	return out
}

func newTestEngine(t *testing.T, opts chat.Options) *chat.Engine {
	t.Helper()
	if opts.Now == nil {
		clock := &stepClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
		opts.Now = clock.Now
	}
	return chat.NewEngine(opts)
}

func mustCreate(t *testing.T, e *chat.Engine, name, projectID string, agentType identity.AgentType) chat.Thread {
	t.Helper()
	thread, err := e.CreateThread(context.Background(), chat.CreateThreadRequest{
		Name:      name,
		ProjectID: projectID,
		AgentType: agentType,
	})
	require.NoError(t, err)
	return thread
}

func mustMessages(t *testing.T, e *chat.Engine, threadID string) []chat.Message {
	t.Helper()
	msgs, err := e.Messages(threadID)
	require.NoError(t, err)
	return msgs
}

func primaryCount(threads []chat.Thread) int {
	n := 0
	for _, t := range threads {
		if t.IsPrimary() {
			n++
		}
	}
	return n
}
