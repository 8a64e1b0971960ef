package transport

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"send_message","params":{"thread_id":"t1"},"id":7}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "send_message", req.Method)
	require.Equal(t, json.RawMessage(`{"thread_id":"t1"}`), req.Params)
	require.EqualValues(t, 7, req.ID)
}

func TestParseRequest_Rejects(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{name: "not json", body: `{"jsonrpc":`, code: ErrParseCode},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`, code: ErrInvalidReq},
		{name: "wrong version", body: `{"jsonrpc":"1.0","method":"list_agents"}`, code: ErrInvalidReq},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRequest(bytes.NewBufferString(tc.body))
			require.Error(t, err)
			require.Equal(t, tc.code, parseErrorCode(err))
		})
	}
}

func TestWriteError_CarriesData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, ErrApplication, "thread not found", map[string]string{"code": "THREAD_NOT_FOUND"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Error struct {
			Code int               `json:"code"`
			Data map[string]string `json:"data"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, ErrApplication, resp.Error.Code)
	require.Equal(t, "THREAD_NOT_FOUND", resp.Error.Data["code"])
}
