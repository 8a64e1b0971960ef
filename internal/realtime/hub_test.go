package realtime_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type frame struct {
	Type         string             `json:"type"`
	ProjectID    string             `json:"project_id"`
	Notification *chat.Notification `json:"notification"`
	Code         string             `json:"code"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	require.Equal(t, "connected", readFrame(t, ws).Type)
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func writeFrame(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(v))
}

func newHubServer(t *testing.T) (*realtime.Hub, *httptest.Server) {
	t.Helper()
	hub := realtime.NewHub(nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func TestHub_PushesNotifications(t *testing.T) {
	hub, srv := newHubServer(t)
	ws := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	n := chat.Notification{ThreadID: "t1", ProjectID: "proj-1", Title: "Tasks", Body: "Task Manager: hi"}
	require.NoError(t, hub.Notify(context.Background(), n))

	got := readFrame(t, ws)
	assert.Equal(t, "notification", got.Type)
	require.NotNil(t, got.Notification)
	assert.Equal(t, n, *got.Notification)
}

func TestHub_ProjectSubscription(t *testing.T) {
	hub, srv := newHubServer(t)
	ws := dial(t, srv)

	writeFrame(t, ws, map[string]string{"type": "subscribe", "project_id": "proj-2"})
	sub := readFrame(t, ws)
	require.Equal(t, "subscribed", sub.Type)
	assert.Equal(t, "proj-2", sub.ProjectID)

	require.NoError(t, hub.Notify(context.Background(), chat.Notification{ThreadID: "a", ProjectID: "proj-1"}))
	require.NoError(t, hub.Notify(context.Background(), chat.Notification{ThreadID: "b", ProjectID: "proj-2"}))

	got := readFrame(t, ws)
	require.NotNil(t, got.Notification)
	assert.Equal(t, "b", got.Notification.ThreadID)
}

func TestHub_RejectsBadFrames(t *testing.T) {
	_, srv := newHubServer(t)
	ws := dial(t, srv)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, "bad_request", readFrame(t, ws).Code)

	writeFrame(t, ws, map[string]string{"type": "subscribe"})
	assert.Equal(t, "bad_request", readFrame(t, ws).Code)

	writeFrame(t, ws, map[string]string{"type": "dance"})
	assert.Equal(t, "unsupported_type", readFrame(t, ws).Code)
}

func TestHub_NotifyWithoutClients(t *testing.T) {
	hub := realtime.NewHub(nil)
	require.NoError(t, hub.Notify(context.Background(), chat.Notification{ThreadID: "t1"}))
	assert.Zero(t, hub.Clients())
}

func TestHub_DetachesOnClientClose(t *testing.T) {
	hub, srv := newHubServer(t)
	ws := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}
