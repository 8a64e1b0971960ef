package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/domain/identity"
)

// ChatService defines conversation operations needed by MCP.
type ChatService interface {
	Agents() []identity.Participant
	ActiveProject() string
	ActiveThread() (chat.Thread, bool)
	Thread(id string) (chat.Thread, error)
	Messages(threadID string) ([]chat.Message, error)
	GetThreadsByProject(projectID string) []chat.Thread
	GetThreadsByAgent(agentType identity.AgentType, projectID string) []chat.Thread
	GetActiveProjectThreads() []chat.Thread
	RecentThreads(projectID string) []chat.Thread
	UnreadTotal(projectID string) int
	CreateThread(ctx context.Context, req chat.CreateThreadRequest) (chat.Thread, error)
	SetActiveProject(ctx context.Context, projectID string) (chat.Thread, error)
	SetActiveThread(ctx context.Context, threadID string) (chat.Thread, error)
	SendMessage(ctx context.Context, threadID, content string) (chat.Message, error)
	RenameThread(ctx context.Context, threadID, name string) (chat.Thread, error)
	PinThread(ctx context.Context, threadID string, pinned bool) (chat.Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
	MarkThreadRead(ctx context.Context, threadID string) error
	Search(query string, opts chat.SearchOptions) []chat.Message
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

var _ ChatService = (*chat.Engine)(nil)

// Config contains server configuration.
type Config struct {
	Chat     ChatService
	Activity ActivityService
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "threadhub",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Chat, cfg.Activity))

	return server
}
