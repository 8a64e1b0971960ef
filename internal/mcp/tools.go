package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes one MCP tool.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var agentTypeEnum = []string{"main", "task", "feature", "documentation", "detail", "planner"}

func objectSchema(required []string, props map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func threadIDSchema() map[string]any {
	return objectSchema([]string{"thread_id"}, map[string]any{
		"thread_id": stringProp("Thread ID"),
	})
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Orientation
		{
			Name:        "list_agents",
			Description: "List the agent personas threads can be bound to",
			InputSchema: objectSchema(nil, map[string]any{}),
		},
		{
			Name:        "get_active_threads",
			Description: "Get the active project, its active thread, its threads and total unread count",
			InputSchema: objectSchema(nil, map[string]any{}),
		},
		{
			Name:        "list_threads",
			Description: "List a project's threads in creation order, or most recent first with sort=recent",
			InputSchema: objectSchema(nil, map[string]any{
				"project_id": stringProp("Project ID (omit to use the active project)"),
				"sort": map[string]any{
					"type":        "string",
					"description": "Ordering of the result",
					"enum":        []string{"created", "recent"},
				},
			}),
		},
		{
			Name:        "list_threads_by_agent",
			Description: "List threads bound to one agent persona, optionally within a project",
			InputSchema: objectSchema([]string{"agent_type"}, map[string]any{
				"agent_type": map[string]any{
					"type":        "string",
					"description": "Agent persona type",
					"enum":        agentTypeEnum,
				},
				"project_id": stringProp("Project ID to filter by"),
			}),
		},
		{
			Name:        "get_thread",
			Description: "Get a thread with its unread count and last activity",
			InputSchema: threadIDSchema(),
		},
		{
			Name:        "get_messages",
			Description: "Get a thread and its full message log in chronological order",
			InputSchema: threadIDSchema(),
		},
		{
			Name:        "search_messages",
			Description: "Case-insensitive substring search over message content. thread_id wins over project_id; neither searches everything",
			InputSchema: objectSchema([]string{"query"}, map[string]any{
				"query":      stringProp("Text to look for"),
				"thread_id":  stringProp("Limit the search to one thread"),
				"project_id": stringProp("Limit the search to one project"),
			}),
		},
		{
			Name:        "get_recent_activity",
			Description: "Get recent journal entries, newest first",
			InputSchema: objectSchema(nil, map[string]any{
				"project_id": stringProp("Project ID to filter by"),
				"thread_id":  stringProp("Thread ID to filter by"),
				"type":       stringProp("Activity type to filter by, e.g. reply_delivered"),
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of entries (default 50)",
				},
				"offset": map[string]any{
					"type":        "integer",
					"description": "Offset for pagination",
				},
			}),
		},

		// Focus
		{
			Name:        "set_active_project",
			Description: "Focus a project. Returns its primary thread, creating one when the project is new",
			InputSchema: objectSchema([]string{"project_id"}, map[string]any{
				"project_id": stringProp("Project ID"),
			}),
		},
		{
			Name:        "set_active_thread",
			Description: "Focus a thread of the active project and mark it read",
			InputSchema: threadIDSchema(),
		},
		{
			Name:        "mark_thread_read",
			Description: "Mark every message in a thread as read",
			InputSchema: threadIDSchema(),
		},

		// Conversation
		{
			Name:        "send_message",
			Description: "Send a user message. The thread's agent replies after a short delay",
			InputSchema: objectSchema([]string{"thread_id", "content"}, map[string]any{
				"thread_id": stringProp("Thread ID"),
				"content":   stringProp("Message text"),
			}),
		},

		// Lifecycle
		{
			Name:        "create_thread",
			Description: "Create a thread in a project, bound to an agent persona",
			InputSchema: objectSchema([]string{"name", "project_id"}, map[string]any{
				"name":        stringProp("Thread display name"),
				"project_id":  stringProp("Owning project ID"),
				"description": stringProp("What the thread is about"),
				"icon":        stringProp("Icon reference"),
				"agent_type": map[string]any{
					"type":        "string",
					"description": "Agent persona (main makes the project's primary thread)",
					"enum":        agentTypeEnum,
				},
			}),
		},
		{
			Name:        "rename_thread",
			Description: "Change a thread's display name",
			InputSchema: objectSchema([]string{"thread_id", "name"}, map[string]any{
				"thread_id": stringProp("Thread ID"),
				"name":      stringProp("New name"),
			}),
		},
		{
			Name:        "pin_thread",
			Description: "Pin or unpin a thread",
			InputSchema: objectSchema([]string{"thread_id"}, map[string]any{
				"thread_id": stringProp("Thread ID"),
				"pinned": map[string]any{
					"type":        "boolean",
					"description": "true to pin (default), false to unpin",
				},
			}),
		},
		{
			Name:        "delete_thread",
			Description: "Delete a thread and its messages. Primary threads cannot be deleted",
			InputSchema: threadIDSchema(),
		},
	}
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, toolHandler(h, def.Name))
	}
}

func toolHandler(h *Handler, method string) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		result, err := h.Handle(ctx, method, args)
		if err != nil {
			apiErr := MapError(err)
			if apiErr == nil {
				apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
			}
			return &sdkmcp.CallToolResult{
				IsError: true,
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: formatPayload(apiErr)}},
			}, nil
		}

		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: formatPayload(result)}},
		}, nil
	}
}
