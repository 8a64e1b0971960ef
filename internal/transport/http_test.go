package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method string
	err    error
}

func (h *testHandler) Handle(_ context.Context, method string, params json.RawMessage) (any, error) {
	h.method = method
	if h.err != nil {
		return nil, h.err
	}
	return map[string]any{"params": params}, nil
}

type codedTestError struct{ code string }

func (e codedTestError) Error() string             { return e.code }
func (e codedTestError) CodeValue() string         { return e.code }
func (e codedTestError) MessageValue() string      { return "thread not found" }
func (e codedTestError) RecoveryHintValue() string { return "list threads" }

func postRPC(t *testing.T, url, body string) Response {
	t.Helper()
	resp, err := http.Post(url+"/rpc", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(Options{RPC: handler}))
	t.Cleanup(server.Close)

	out := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_threads","params":{"project_id":"p1"},"id":1}`)

	require.Nil(t, out.Error)
	require.Equal(t, "list_threads", handler.method)
	require.Equal(t, float64(1), out.ID)
}

func TestHTTPServer_RPCErrors(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(Options{RPC: handler}))
	t.Cleanup(server.Close)

	out := postRPC(t, server.URL, `{"jsonrpc":"1.0","method":"x","id":1}`)
	require.NotNil(t, out.Error)
	require.Equal(t, ErrInvalidReq, out.Error.Code)

	handler.err = codedTestError{code: "THREAD_NOT_FOUND"}
	out = postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"get_thread","id":2}`)
	require.NotNil(t, out.Error)
	require.Equal(t, ErrApplication, out.Error.Code)
	require.Equal(t, "thread not found", out.Error.Message)

	handler.err = codedTestError{code: "UNKNOWN_METHOD"}
	out = postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"nope","id":3}`)
	require.Equal(t, ErrMethodNotFound, out.Error.Code)

	handler.err = errors.New("boom")
	out = postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"get_thread","id":4}`)
	require.Equal(t, ErrInternal, out.Error.Code)
}

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(Options{}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestHTTPServer_MountsOptionalRoutes(t *testing.T) {
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	server := httptest.NewServer(NewServer(Options{Notifications: ws, MCP: mcp}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusTeapot, resp.StatusCode)

	resp, err = http.Post(server.URL+"/mcp", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, err = http.Post(server.URL+"/rpc", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
