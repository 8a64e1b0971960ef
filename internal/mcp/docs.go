package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `threadhub keeps parallel conversations between a user and agent personas, grouped by project.

Core concepts:
- Project: a plain ID. Projects exist as soon as they have a thread.
- Thread: a conversation bound to at most one agent persona (main, task, feature, documentation, detail, planner).
- Primary thread: the project's agent_type=main thread. Every project with threads has exactly one and it cannot be deleted.
- Unread: agent messages the user has not seen. Focusing a thread reads it.

Default workflow:
1) Orient: set_active_project(project_id), then get_active_threads.
2) Browse: list_threads (sort=recent), search_messages, get_messages.
3) Talk: send_message(thread_id, content). The agent replies after a short delay; replies to unfocused threads raise a notification.
4) Organize: create_thread / rename_thread / pin_thread / delete_thread.

Docs:
- threadhub://docs/index
- threadhub://docs/concepts
- threadhub://docs/workflows/conversations
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "threadhub://docs/index",
		Name:        "docs_index",
		Title:       "threadhub docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# threadhub: Agent Docs Index

## Quick start

1. ` + "`set_active_project`" + ` to focus a project. A new project gets its primary thread.
2. ` + "`get_active_threads`" + ` to see threads and unread counts.
3. ` + "`send_message`" + ` to talk to a thread's agent.
4. ` + "`get_recent_activity`" + ` to see what happened while you were away.

## Docs

- ` + "`threadhub://docs/concepts`" + ` covers threads, personas, unread state and the primary thread rule.
- ` + "`threadhub://docs/workflows/conversations`" + ` covers sending, replies and notifications.

## Limitations

- Conversations live in memory and are lost on restart. The activity journal persists.
- Replies cannot be cancelled. A reply whose thread was deleted is dropped.
`,
	},
	{
		URI:         "threadhub://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts",
		Description: "Threads, personas, unread state and invariants.",
		Content: `# Concepts

## Threads

A thread belongs to one project and may be bound to an agent persona. Its participants are the user and that persona.
Creating a thread posts a welcome message from the persona. It starts unread.

## Primary thread

The thread with ` + "`agent_type=main`" + ` is the project's primary thread.

- Creating the first non-main thread in a project also creates the primary thread.
- A second main thread is rejected with ` + "`DUPLICATE_PRIMARY`" + `.
- Deleting it is rejected with ` + "`PROTECTED_THREAD`" + `.

## Unread state

- ` + "`unread_count`" + ` counts agent messages not yet read.
- Messages only go from unread to read, never back.
- Focusing a thread, or ` + "`mark_thread_read`" + `, reads it.
- Replies that land in the focused thread arrive already read.

## Focus

- ` + "`set_active_project`" + ` focuses the project's primary thread (else its first thread, else a new primary thread).
- ` + "`set_active_thread`" + ` only accepts threads of the active project; others fail with ` + "`PROJECT_MISMATCH`" + `.
- Deleting the focused thread moves focus to the primary thread.
`,
	},
	{
		URI:         "threadhub://docs/workflows/conversations",
		Name:        "docs_workflow_conversations",
		Title:       "Workflow: conversations",
		Description: "Sending messages, replies, notifications and search.",
		Content: `# Workflow: conversations

1) ` + "`send_message(thread_id, content)`" + ` stores the user message right away and returns it.
   Blank content is rejected with ` + "`BLANK_CONTENT`" + `.
2) After the reply delay the thread's persona answers. Greetings and thanks get a short answer; anything else gets the persona's canned response.
3) If the thread is not focused when the reply lands, a notification is pushed to websocket clients at ` + "`/ws`" + ` and logged.
4) ` + "`search_messages(query)`" + ` matches content case-insensitively in send order. A blank query matches nothing.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
