package chat_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateThread_WelcomeMessageStartsUnread(t *testing.T) {
	e := newTestEngine(t, chat.Options{})

	thread := mustCreate(t, e, "X", "proj-9", identity.AgentTask)

	msgs := mustMessages(t, e, thread.ID)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Read)
	assert.True(t, msgs[0].Sender.IsAgent)
	assert.Equal(t, identity.AgentTask, msgs[0].Sender.AgentType)
	assert.Contains(t, msgs[0].Content, "X")
	assert.Equal(t, "proj-9", msgs[0].ProjectID)
	assert.Equal(t, 1, thread.UnreadCount)
	assert.Equal(t, msgs[0].Timestamp, thread.LastActivity)
}

func TestCreateThread_AddsPrimaryForNewProject(t *testing.T) {
	e := newTestEngine(t, chat.Options{})

	mustCreate(t, e, "Tasks", "proj-1", identity.AgentTask)

	threads := e.GetThreadsByProject("proj-1")
	require.Len(t, threads, 2)
	assert.True(t, threads[0].IsPrimary())
	assert.Equal(t, "proj-1 - Main", threads[0].Name)
	assert.Equal(t, identity.AgentTask, threads[1].AgentType)
}

func TestCreateThread_RejectsSecondPrimary(t *testing.T) {
	e := newTestEngine(t, chat.Options{})
	mustCreate(t, e, "Main", "proj-1", identity.AgentMain)

	_, err := e.CreateThread(context.Background(), chat.CreateThreadRequest{
		Name: "Other main", ProjectID: "proj-1", AgentType: identity.AgentMain,
	})
	require.ErrorIs(t, err, chat.ErrDuplicatePrimary)
	assert.Len(t, e.GetThreadsByProject("proj-1"), 1)
}

func TestCreateThread_InvalidInput(t *testing.T) {
	e := newTestEngine(t, chat.Options{})

	_, err := e.CreateThread(context.Background(), chat.CreateThreadRequest{Name: "  ", ProjectID: "proj-1"})
	require.ErrorIs(t, err, chat.ErrInvalidInput)

	_, err = e.CreateThread(context.Background(), chat.CreateThreadRequest{Name: "X"})
	require.ErrorIs(t, err, chat.ErrInvalidInput)
}

func TestCreateThread_UnknownAgentUsesMainPersona(t *testing.T) {
	e := newTestEngine(t, chat.Options{})
	mustCreate(t, e, "Main", "proj-1", identity.AgentMain)

	thread := mustCreate(t, e, "Misc", "proj-1", identity.AgentType("wizard"))

	assert.False(t, thread.IsPrimary())
	assert.Equal(t, identity.AgentType(""), thread.AgentType)
	require.Len(t, thread.Participants, 2)
	assert.False(t, thread.Participants[0].IsAgent)
	assert.Equal(t, identity.AgentMain, thread.Participants[1].AgentType)
}

func TestSetActiveProject_CreatesPrimaryThread(t *testing.T) {
	e := newTestEngine(t, chat.Options{})

	thread, err := e.SetActiveProject(context.Background(), "proj-new")
	require.NoError(t, err)

	threads := e.GetThreadsByProject("proj-new")
	require.Len(t, threads, 1)
	assert.Equal(t, identity.AgentMain, threads[0].AgentType)
	assert.Equal(t, thread.ID, threads[0].ID)
	assert.Equal(t, "proj-new", e.ActiveProject())

	active, ok := e.ActiveThread()
	require.True(t, ok)
	assert.Equal(t, thread.ID, active.ID)
	assert.Equal(t, 0, active.UnreadCount)
}

func TestSetActiveProject_ReusesPrimary(t *testing.T) {
	e := newTestEngine(t, chat.Options{})
	task := mustCreate(t, e, "Tasks", "proj-1", identity.AgentTask)

	thread, err := e.SetActiveProject(context.Background(), "proj-1")
	require.NoError(t, err)

	assert.True(t, thread.IsPrimary())
	assert.NotEqual(t, task.ID, thread.ID)
	assert.Len(t, e.GetThreadsByProject("proj-1"), 2)
	assert.Len(t, e.GetActiveProjectThreads(), 2)
}

func TestSetActiveThread(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, chat.Options{})
	_, err := e.SetActiveProject(ctx, "proj-1")
	require.NoError(t, err)
	task := mustCreate(t, e, "Tasks", "proj-1", identity.AgentTask)
	other := mustCreate(t, e, "Elsewhere", "proj-2", identity.AgentPlanner)

	t.Run("marks thread read", func(t *testing.T) {
		thread, err := e.SetActiveThread(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, thread.UnreadCount)
		for _, msg := range mustMessages(t, e, task.ID) {
			assert.True(t, msg.Read)
		}
	})

	t.Run("rejects thread of another project", func(t *testing.T) {
		_, err := e.SetActiveThread(ctx, other.ID)
		require.ErrorIs(t, err, chat.ErrThreadProjectMismatch)

		active, ok := e.ActiveThread()
		require.True(t, ok)
		assert.Equal(t, task.ID, active.ID)
		assert.Equal(t, "proj-1", e.ActiveProject())
	})

	t.Run("unknown thread", func(t *testing.T) {
		_, err := e.SetActiveThread(ctx, "missing")
		require.ErrorIs(t, err, chat.ErrUnknownThread)
	})
}

func TestRenameAndPinThread(t *testing.T) {
	ctx := context.Background()
	j := &journal{}
	e := newTestEngine(t, chat.Options{Activities: j})
	thread := mustCreate(t, e, "Tasks", "proj-1", identity.AgentTask)

	renamed, err := e.RenameThread(ctx, thread.ID, "  Sprint tasks ")
	require.NoError(t, err)
	assert.Equal(t, "Sprint tasks", renamed.Name)

	_, err = e.RenameThread(ctx, thread.ID, "")
	require.ErrorIs(t, err, chat.ErrInvalidInput)
	_, err = e.RenameThread(ctx, "missing", "x")
	require.ErrorIs(t, err, chat.ErrUnknownThread)

	pinned, err := e.PinThread(ctx, thread.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)
	unpinned, err := e.PinThread(ctx, thread.ID, false)
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned)

	assert.Contains(t, j.types(), activity.TypeThreadRenamed)
	assert.Contains(t, j.types(), activity.TypeThreadPinned)
	assert.Contains(t, j.types(), activity.TypeThreadUnpinned)
}

func TestDeleteThread_PrimaryIsProtected(t *testing.T) {
	e := newTestEngine(t, chat.Options{})
	primary, err := e.SetActiveProject(context.Background(), "proj-1")
	require.NoError(t, err)
	mustCreate(t, e, "Tasks", "proj-1", identity.AgentTask)

	before := e.GetThreadsByProject("proj-1")
	beforeMsgs := mustMessages(t, e, primary.ID)

	err = e.DeleteThread(context.Background(), primary.ID)
	require.ErrorIs(t, err, chat.ErrProtectedThread)

	if diff := cmp.Diff(before, e.GetThreadsByProject("proj-1")); diff != "" {
		t.Errorf("threads changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(beforeMsgs, mustMessages(t, e, primary.ID)); diff != "" {
		t.Errorf("messages changed (-before +after):\n%s", diff)
	}
}

func TestDeleteThread_CascadesAndRefocuses(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, chat.Options{})
	primary, err := e.SetActiveProject(ctx, "proj-1")
	require.NoError(t, err)
	task := mustCreate(t, e, "Timeline tasks", "proj-1", identity.AgentTask)
	_, err = e.SetActiveThread(ctx, task.ID)
	require.NoError(t, err)
	_, err = e.SendMessage(ctx, task.ID, "review the timeline")
	require.NoError(t, err)

	require.NoError(t, e.DeleteThread(ctx, task.ID))

	_, err = e.Thread(task.ID)
	require.ErrorIs(t, err, chat.ErrUnknownThread)
	_, err = e.Messages(task.ID)
	require.ErrorIs(t, err, chat.ErrUnknownThread)
	assert.Empty(t, e.Search("timeline", chat.SearchOptions{ThreadID: task.ID}))
	assert.Empty(t, e.Search("timeline", chat.SearchOptions{ProjectID: "proj-1"}))

	active, ok := e.ActiveThread()
	require.True(t, ok)
	assert.Equal(t, primary.ID, active.ID)

	require.ErrorIs(t, e.DeleteThread(ctx, task.ID), chat.ErrUnknownThread)
}

func TestPrimaryThreadInvariant(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, chat.Options{})

	mustCreate(t, e, "Tasks", "proj-1", identity.AgentTask)
	mustCreate(t, e, "Docs", "proj-1", identity.AgentDocumentation)
	_, err := e.SetActiveProject(ctx, "proj-2")
	require.NoError(t, err)
	plan := mustCreate(t, e, "Plan", "proj-2", identity.AgentPlanner)
	require.NoError(t, e.DeleteThread(ctx, plan.ID))

	for _, project := range []string{"proj-1", "proj-2"} {
		assert.Equal(t, 1, primaryCount(e.GetThreadsByProject(project)), project)
	}
}

func TestGetThreadsByAgent(t *testing.T) {
	e := newTestEngine(t, chat.Options{})
	mustCreate(t, e, "Tasks A", "proj-1", identity.AgentTask)
	mustCreate(t, e, "Tasks B", "proj-2", identity.AgentTask)
	mustCreate(t, e, "Docs", "proj-1", identity.AgentDocumentation)

	assert.Len(t, e.GetThreadsByAgent(identity.AgentTask, ""), 2)
	scoped := e.GetThreadsByAgent(identity.AgentTask, "proj-2")
	require.Len(t, scoped, 1)
	assert.Equal(t, "Tasks B", scoped[0].Name)
	assert.Empty(t, e.GetThreadsByAgent(identity.AgentPlanner, ""))
}

func TestGetActiveProjectThreads_NoActiveProject(t *testing.T) {
	e := newTestEngine(t, chat.Options{})
	mustCreate(t, e, "Tasks", "proj-1", identity.AgentTask)

	assert.Empty(t, e.GetActiveProjectThreads())
	_, ok := e.ActiveThread()
	assert.False(t, ok)
}
