package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/identity"
)

// CreateThread creates a thread and posts the persona's welcome message.
// A project that has no primary thread yet gets one first, so every project
// with threads keeps exactly one primary thread.
func (e *Engine) CreateThread(ctx context.Context, req CreateThreadRequest) (Thread, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	if req.Name == "" || req.ProjectID == "" {
		return Thread{}, ErrInvalidInput
	}
	if !req.AgentType.Valid() {
		req.AgentType = ""
	}

	e.mu.Lock()
	var entries []activity.ActivityEntry
	if e.primaryLocked(req.ProjectID) != nil {
		if req.AgentType == identity.AgentMain {
			e.mu.Unlock()
			return Thread{}, ErrDuplicatePrimary
		}
	} else if req.AgentType != identity.AgentMain {
		_, created := e.createThreadLocked(mainThreadRequest(req.ProjectID))
		entries = append(entries, created...)
	}
	t, created := e.createThreadLocked(req)
	entries = append(entries, created...)
	snap := e.snapshotLocked(t)
	e.mu.Unlock()

	e.record(ctx, entries)
	return snap, nil
}

// SetActiveProject focuses a project and returns its resolved thread: the
// primary thread, else the first thread, else a newly created primary thread.
func (e *Engine) SetActiveProject(ctx context.Context, projectID string) (Thread, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return Thread{}, ErrInvalidInput
	}

	e.mu.Lock()
	t, entries := e.resolveProjectThreadLocked(projectID)
	e.activeProjectID = projectID
	e.activateLocked(t)
	snap := e.snapshotLocked(t)
	e.mu.Unlock()

	entries = append(entries,
		newEntry(activity.TypeProjectActivated, projectID, t.ID, fmt.Sprintf("activated project %s", projectID)))
	e.record(ctx, entries)
	return snap, nil
}

// SetActiveThread focuses a thread of the active project and marks it read.
// Threads of other projects are rejected without changing state.
func (e *Engine) SetActiveThread(ctx context.Context, threadID string) (Thread, error) {
	e.mu.Lock()
	t, ok := e.byID[threadID]
	if !ok {
		e.mu.Unlock()
		return Thread{}, ErrUnknownThread
	}
	if t.ProjectID != e.activeProjectID {
		e.mu.Unlock()
		return Thread{}, ErrThreadProjectMismatch
	}
	e.activateLocked(t)
	snap := e.snapshotLocked(t)
	e.mu.Unlock()

	e.record(ctx, []activity.ActivityEntry{
		newEntry(activity.TypeThreadActivated, t.ProjectID, t.ID, fmt.Sprintf("activated thread %s", t.Name)),
	})
	return snap, nil
}

// RenameThread changes a thread's display name.
func (e *Engine) RenameThread(ctx context.Context, threadID, name string) (Thread, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Thread{}, ErrInvalidInput
	}

	e.mu.Lock()
	t, ok := e.byID[threadID]
	if !ok {
		e.mu.Unlock()
		return Thread{}, ErrUnknownThread
	}
	old := t.Name
	t.Name = name
	snap := e.snapshotLocked(t)
	e.mu.Unlock()

	e.record(ctx, []activity.ActivityEntry{
		newEntry(activity.TypeThreadRenamed, t.ProjectID, t.ID, fmt.Sprintf("renamed %q to %q", old, name)),
	})
	return snap, nil
}

// PinThread sets a thread's pinned flag. Ordering by pin is left to callers.
func (e *Engine) PinThread(ctx context.Context, threadID string, pinned bool) (Thread, error) {
	e.mu.Lock()
	t, ok := e.byID[threadID]
	if !ok {
		e.mu.Unlock()
		return Thread{}, ErrUnknownThread
	}
	t.Pinned = pinned
	snap := e.snapshotLocked(t)
	e.mu.Unlock()

	typ := activity.TypeThreadUnpinned
	if pinned {
		typ = activity.TypeThreadPinned
	}
	e.record(ctx, []activity.ActivityEntry{newEntry(typ, t.ProjectID, t.ID, t.Name)})
	return snap, nil
}

// DeleteThread removes a non-primary thread and all of its messages. When the
// deleted thread was active, focus moves to the project's primary thread.
func (e *Engine) DeleteThread(ctx context.Context, threadID string) error {
	e.mu.Lock()
	t, ok := e.byID[threadID]
	if !ok {
		e.mu.Unlock()
		return ErrUnknownThread
	}
	if t.IsPrimary() {
		e.mu.Unlock()
		return ErrProtectedThread
	}

	for i, candidate := range e.threads {
		if candidate.ID == threadID {
			e.threads = append(e.threads[:i], e.threads[i+1:]...)
			break
		}
	}
	delete(e.byID, threadID)
	removed := len(e.messages[threadID])
	delete(e.messages, threadID)

	entries := []activity.ActivityEntry{
		newEntry(activity.TypeThreadDeleted, t.ProjectID, t.ID, fmt.Sprintf("deleted %q with %d messages", t.Name, removed)),
	}
	if e.activeThreadID == threadID {
		e.activeThreadID = ""
		next := e.primaryLocked(t.ProjectID)
		if next == nil {
			var created []activity.ActivityEntry
			next, created = e.resolveProjectThreadLocked(t.ProjectID)
			entries = append(entries, created...)
		}
		e.activateLocked(next)
	}
	e.mu.Unlock()

	e.record(ctx, entries)
	return nil
}

func (e *Engine) createThreadLocked(req CreateThreadRequest) (*Thread, []activity.ActivityEntry) {
	persona := e.registry.AgentOrMain(req.AgentType)
	t := &Thread{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		ProjectID:    req.ProjectID,
		AgentType:    req.AgentType,
		Participants: []identity.Participant{e.registry.User(), persona},
		CreatedAt:    e.now(),
	}
	e.threads = append(e.threads, t)
	e.byID[t.ID] = t
	e.appendLocked(t, persona, welcomeMessage(t.Name, t.Description, persona))

	e.logger.Debug("thread created", "thread_id", t.ID, "project_id", t.ProjectID, "agent_type", t.AgentType)
	return t, []activity.ActivityEntry{
		newEntry(activity.TypeThreadCreated, t.ProjectID, t.ID, fmt.Sprintf("created %q", t.Name)),
	}
}

func (e *Engine) resolveProjectThreadLocked(projectID string) (*Thread, []activity.ActivityEntry) {
	if t := e.primaryLocked(projectID); t != nil {
		return t, nil
	}
	for _, t := range e.threads {
		if t.ProjectID == projectID {
			return t, nil
		}
	}
	return e.createThreadLocked(mainThreadRequest(projectID))
}

func (e *Engine) primaryLocked(projectID string) *Thread {
	for _, t := range e.threads {
		if t.ProjectID == projectID && t.IsPrimary() {
			return t
		}
	}
	return nil
}

// activateLocked focuses t. Viewing a thread reads it.
func (e *Engine) activateLocked(t *Thread) {
	e.activeThreadID = t.ID
	e.markReadLocked(t.ID)
}

func mainThreadRequest(projectID string) CreateThreadRequest {
	return CreateThreadRequest{
		Name:      projectID + " - Main",
		ProjectID: projectID,
		AgentType: identity.AgentMain,
	}
}
