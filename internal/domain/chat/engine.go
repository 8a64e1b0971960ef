package chat

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/identity"
	"github.com/rpggio/threadhub/internal/queue"
)

const (
	// DefaultReplyDelay is how long an agent takes to answer a user message.
	DefaultReplyDelay = 1500 * time.Millisecond
	// DefaultPreviewLength is the notification preview size in runes.
	DefaultPreviewLength = 60
)

// Options configures an Engine. Only Registry is required; a nil Queue
// disables replies and nil Notifier/Activities disable those side effects.
type Options struct {
	Registry      *identity.Registry
	Queue         queue.Client
	Notifier      Notifier
	Activities    ActivityLogger
	ReplyDelay    time.Duration
	PreviewLength int
	Now           func() time.Time
	Logger        *slog.Logger
}

// Engine owns every conversation thread and its message log. All operations
// are serialized; reply delivery from the queue enters through the same lock.
type Engine struct {
	mu sync.Mutex

	registry   *identity.Registry
	queue      queue.Client
	notifier   Notifier
	activities ActivityLogger
	replyDelay time.Duration
	previewLen int
	now        func() time.Time
	logger     *slog.Logger

	threads         []*Thread
	byID            map[string]*Thread
	messages        map[string][]Message
	activeProjectID string
	activeThreadID  string
	seq             int64
}

// NewEngine creates an empty engine.
func NewEngine(opts Options) *Engine {
	registry := opts.Registry
	if registry == nil {
		registry = identity.DefaultRegistry()
	}
	delay := opts.ReplyDelay
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	previewLen := opts.PreviewLength
	if previewLen <= 0 {
		previewLen = DefaultPreviewLength
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		registry:   registry,
		queue:      opts.Queue,
		notifier:   opts.Notifier,
		activities: opts.Activities,
		replyDelay: delay,
		previewLen: previewLen,
		now:        now,
		logger:     logger,
		byID:       make(map[string]*Thread),
		messages:   make(map[string][]Message),
	}
}

// Agents returns the agent personas known to the engine.
func (e *Engine) Agents() []identity.Participant {
	return e.registry.Agents()
}

// User returns the human participant.
func (e *Engine) User() identity.Participant {
	return e.registry.User()
}

// ActiveProject returns the active project ID, or "" if none.
func (e *Engine) ActiveProject() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeProjectID
}

// ActiveThread returns the active thread, if any.
func (e *Engine) ActiveThread() (Thread, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.byID[e.activeThreadID]
	if !ok {
		return Thread{}, false
	}
	return e.snapshotLocked(t), true
}

// Thread returns a thread by ID.
func (e *Engine) Thread(id string) (Thread, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.byID[id]
	if !ok {
		return Thread{}, ErrUnknownThread
	}
	return e.snapshotLocked(t), nil
}

// Messages returns a thread's log in chronological order.
func (e *Engine) Messages(threadID string) ([]Message, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.byID[threadID]; !ok {
		return nil, ErrUnknownThread
	}
	msgs := e.messages[threadID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// GetThreadsByProject returns a project's threads in creation order.
func (e *Engine) GetThreadsByProject(projectID string) []Thread {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filterLocked(func(t *Thread) bool { return t.ProjectID == projectID })
}

// GetThreadsByAgent returns threads bound to agentType, optionally limited to
// one project when projectID is non-empty.
func (e *Engine) GetThreadsByAgent(agentType identity.AgentType, projectID string) []Thread {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filterLocked(func(t *Thread) bool {
		return t.AgentType == agentType && (projectID == "" || t.ProjectID == projectID)
	})
}

// GetActiveProjectThreads returns the threads of the active project.
func (e *Engine) GetActiveProjectThreads() []Thread {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.activeProjectID == "" {
		return []Thread{}
	}
	return e.filterLocked(func(t *Thread) bool { return t.ProjectID == e.activeProjectID })
}

// RecentThreads returns a project's threads, most recently active first.
func (e *Engine) RecentThreads(projectID string) []Thread {
	threads := e.GetThreadsByProject(projectID)
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].LastActivity.After(threads[j].LastActivity)
	})
	return threads
}

// UnreadTotal sums unread agent messages across a project's threads.
func (e *Engine) UnreadTotal(projectID string) int {
	total := 0
	for _, t := range e.GetThreadsByProject(projectID) {
		total += t.UnreadCount
	}
	return total
}

func (e *Engine) filterLocked(keep func(*Thread) bool) []Thread {
	out := []Thread{}
	for _, t := range e.threads {
		if keep(t) {
			out = append(out, e.snapshotLocked(t))
		}
	}
	return out
}

func (e *Engine) snapshotLocked(t *Thread) Thread {
	snap := *t
	snap.Participants = make([]identity.Participant, len(t.Participants))
	copy(snap.Participants, t.Participants)
	return deriveThread(snap, e.messages[t.ID])
}

// record journals entries and reports failures without propagating them.
func (e *Engine) record(ctx context.Context, entries []activity.ActivityEntry) {
	if e.activities == nil {
		return
	}
	for i := range entries {
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = e.now()
		}
		if err := e.activities.LogActivity(ctx, &entries[i]); err != nil {
			e.logger.Warn("failed to journal activity", "type", entries[i].ActivityType, "error", err)
		}
	}
}

func newEntry(typ activity.ActivityType, projectID, threadID, summary string) activity.ActivityEntry {
	entry := activity.ActivityEntry{
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
	}
	if threadID != "" {
		entry.ThreadID = &threadID
	}
	return entry
}
