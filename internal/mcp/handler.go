package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
)

// Handler dispatches MCP commands.
type Handler struct {
	chat     ChatService
	activity ActivityService
}

// NewHandler creates a new MCP handler. A nil activity service disables
// get_recent_activity.
func NewHandler(chatSvc ChatService, activitySvc ActivityService) *Handler {
	return &Handler{
		chat:     chatSvc,
		activity: activitySvc,
	}
}

// Handle dispatches MCP requests to domain services. Domain failures are
// returned as *APIError.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_agents":
		return h.chat.Agents(), nil
	case "create_thread":
		var req CreateThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		thread, err := h.chat.CreateThread(ctx, chat.CreateThreadRequest{
			Name:        req.Name,
			ProjectID:   req.ProjectID,
			Description: req.Description,
			Icon:        req.Icon,
			AgentType:   req.AgentType,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return thread, nil
	case "set_active_project":
		var req ProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		thread, err := h.chat.SetActiveProject(ctx, req.ProjectID)
		if err != nil {
			return nil, mapError(err)
		}
		return thread, nil
	case "set_active_thread":
		var req ThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		thread, err := h.chat.SetActiveThread(ctx, req.ThreadID)
		if err != nil {
			return nil, mapError(err)
		}
		return thread, nil
	case "send_message":
		var req SendMessageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		msg, err := h.chat.SendMessage(ctx, req.ThreadID, req.Content)
		if err != nil {
			// The message is stored even when the reply could not be scheduled.
			if msg.ID != "" {
				return SendMessageResponse{Message: msg, Warning: err.Error()}, nil
			}
			return nil, mapError(err)
		}
		return SendMessageResponse{Message: msg, ReplyPending: true}, nil
	case "rename_thread":
		var req RenameThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		thread, err := h.chat.RenameThread(ctx, req.ThreadID, req.Name)
		if err != nil {
			return nil, mapError(err)
		}
		return thread, nil
	case "pin_thread":
		var req PinThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		pinned := true
		if req.Pinned != nil {
			pinned = *req.Pinned
		}
		thread, err := h.chat.PinThread(ctx, req.ThreadID, pinned)
		if err != nil {
			return nil, mapError(err)
		}
		return thread, nil
	case "delete_thread":
		var req ThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.chat.DeleteThread(ctx, req.ThreadID); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "deleted", ThreadID: req.ThreadID}, nil
	case "mark_thread_read":
		var req ThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.chat.MarkThreadRead(ctx, req.ThreadID); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "read", ThreadID: req.ThreadID}, nil
	case "search_messages":
		var req SearchMessagesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.chat.Search(req.Query, chat.SearchOptions{
			ThreadID:  req.ThreadID,
			ProjectID: req.ProjectID,
		}), nil
	case "list_threads":
		var req ListThreadsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		projectID := req.ProjectID
		if projectID == "" {
			projectID = h.chat.ActiveProject()
		}
		if projectID == "" {
			return nil, &APIError{Code: "NO_ACTIVE_PROJECT", Message: "no project given and none active", RecoveryHint: "Pass project_id or call set_active_project"}
		}
		if req.Sort == "recent" {
			return h.chat.RecentThreads(projectID), nil
		}
		return h.chat.GetThreadsByProject(projectID), nil
	case "list_threads_by_agent":
		var req ListThreadsByAgentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if !req.AgentType.Valid() {
			return nil, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("unknown agent_type %q", req.AgentType), RecoveryHint: "Call list_agents for valid agent types"}
		}
		return h.chat.GetThreadsByAgent(req.AgentType, req.ProjectID), nil
	case "get_active_threads":
		resp := ActiveThreadsResponse{
			ActiveProjectID: h.chat.ActiveProject(),
			Threads:         h.chat.GetActiveProjectThreads(),
		}
		if thread, ok := h.chat.ActiveThread(); ok {
			resp.ActiveThread = &thread
		}
		for _, t := range resp.Threads {
			resp.UnreadTotal += t.UnreadCount
		}
		return resp, nil
	case "get_thread":
		var req ThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		thread, err := h.chat.Thread(req.ThreadID)
		if err != nil {
			return nil, mapError(err)
		}
		return thread, nil
	case "get_messages":
		var req ThreadParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		thread, err := h.chat.Thread(req.ThreadID)
		if err != nil {
			return nil, mapError(err)
		}
		msgs, err := h.chat.Messages(req.ThreadID)
		if err != nil {
			return nil, mapError(err)
		}
		return ThreadMessagesResponse{Thread: thread, Messages: msgs}, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if h.activity == nil {
			return []ActivityEntryResponse{}, nil
		}
		entries, err := h.activity.GetRecentActivity(ctx, activity.ListActivityOptions{
			ProjectID:    req.ProjectID,
			ThreadID:     req.ThreadID,
			ActivityType: req.Type,
			Limit:        req.Limit,
			Offset:       req.Offset,
		})
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				ProjectID: entry.ProjectID,
				ThreadID:  entry.ThreadID,
				MessageID: entry.MessageID,
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, mapError(fmt.Errorf("%w: %s", ErrUnknownMethod, method))
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check argument names and types"}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
