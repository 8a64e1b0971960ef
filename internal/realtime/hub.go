package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/threadhub/internal/domain/chat"
)

const (
	readTimeout  = 60 * time.Second
	maxFrameSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type inboundFrame struct {
	Type      string `json:"type"`
	ProjectID string `json:"project_id,omitempty"`
}

type outboundFrame struct {
	Type         string             `json:"type"`
	ProjectID    string             `json:"project_id,omitempty"`
	Notification *chat.Notification `json:"notification,omitempty"`
	Code         string             `json:"code,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// Hub pushes reply notifications to websocket clients. A client sees every
// notification until it subscribes to a project, then only that project's.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*Connection
	projects map[string]string // connection ID -> subscribed project
	logger   *slog.Logger
}

var _ chat.Notifier = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		conns:    make(map[string]*Connection),
		projects: make(map[string]string),
		logger:   logger,
	}
}

// Notify implements chat.Notifier. Having no listeners is not an error.
func (h *Hub) Notify(_ context.Context, n chat.Notification) error {
	payload, err := json.Marshal(outboundFrame{Type: "notification", ProjectID: n.ProjectID, Notification: &n})
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.conns))
	for id, conn := range h.conns {
		if project := h.projects[id]; project == "" || project == n.ProjectID {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range targets {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	h.logger.Debug("notification pushed", "thread_id", n.ThreadID, "clients", delivered)
	return nil
}

// Clients returns the number of attached connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ServeHTTP upgrades the request and reads subscription frames until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConnection(ws)
	h.attach(conn)
	defer func() {
		h.detach(conn)
		conn.Close(websocket.CloseNormalClosure, "session closed")
	}()

	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	h.reply(conn, outboundFrame{Type: "connected"})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				h.logger.Debug("websocket read failed", "conn_id", conn.ID, "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.reply(conn, outboundFrame{Type: "error", Code: "bad_request", Error: "invalid payload"})
			continue
		}

		switch frame.Type {
		case "subscribe":
			if frame.ProjectID == "" {
				h.reply(conn, outboundFrame{Type: "error", Code: "bad_request", Error: "project_id is required"})
				continue
			}
			h.subscribe(conn, frame.ProjectID)
			h.reply(conn, outboundFrame{Type: "subscribed", ProjectID: frame.ProjectID})
		case "unsubscribe":
			h.subscribe(conn, "")
			h.reply(conn, outboundFrame{Type: "unsubscribed"})
		default:
			h.reply(conn, outboundFrame{Type: "error", Code: "unsupported_type", Error: "unknown frame type"})
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[string]*Connection)
	h.projects = make(map[string]string)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.CloseGoingAway, "server shutdown")
	}
}

func (h *Hub) attach(conn *Connection) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()
	conn.Start()
}

func (h *Hub) detach(conn *Connection) {
	h.mu.Lock()
	delete(h.conns, conn.ID)
	delete(h.projects, conn.ID)
	h.mu.Unlock()
}

func (h *Hub) subscribe(conn *Connection, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn.ID]; !ok {
		return
	}
	if projectID == "" {
		delete(h.projects, conn.ID)
		return
	}
	h.projects[conn.ID] = projectID
}

func (h *Hub) reply(conn *Connection, frame outboundFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}
