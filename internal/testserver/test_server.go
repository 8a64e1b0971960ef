package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/domain/identity"
	"github.com/rpggio/threadhub/internal/mcp"
	"github.com/rpggio/threadhub/internal/notify"
	"github.com/rpggio/threadhub/internal/queue"
	"github.com/rpggio/threadhub/internal/realtime"
	"github.com/rpggio/threadhub/internal/sqlite"
	"github.com/rpggio/threadhub/internal/transport"
	"github.com/stretchr/testify/require"
)

// ReplyDelay is the agent reply delay used by test servers.
const ReplyDelay = 20 * time.Millisecond

// TestServer is the full HTTP stack backed by in-memory storage.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Engine   *chat.Engine
	Activity *activity.Service
	Hub      *realtime.Hub
	Queue    *queue.MemoryQueue
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	q := queue.NewMemoryQueue(nil)
	hub := realtime.NewHub(nil)

	engine := chat.NewEngine(chat.Options{
		Registry:   identity.DefaultRegistry(),
		Queue:      q,
		Notifier:   notify.Fanout{hub},
		Activities: activitySvc,
		ReplyDelay: ReplyDelay,
	})
	chat.RegisterReplyTask(q, engine)

	mcpServer := mcp.NewServer(mcp.Config{Chat: engine, Activity: activitySvc})
	router := transport.NewServer(transport.Options{
		RPC: mcp.NewHandler(engine, activitySvc),
		MCP: sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
			return mcpServer
		}, nil),
		Notifications: hub,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		_ = q.Close()
		hub.Close()
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Engine:   engine,
		Activity: activitySvc,
		Hub:      hub,
		Queue:    q,
	}
}

// WebSocketURL returns the notification endpoint URL.
func (ts *TestServer) WebSocketURL() string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/ws"
}
