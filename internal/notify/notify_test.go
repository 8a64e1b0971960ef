package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/notify"
	"github.com/rpggio/threadhub/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := n.Notify(context.Background(), chat.Notification{ThreadID: "t1", Title: "Tasks", Body: "Task Manager: hi"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"title":"Tasks"`)
	assert.Contains(t, buf.String(), `"thread_id":"t1"`)
}

func TestFanout_DeliversToEverySink(t *testing.T) {
	note := chat.Notification{ThreadID: "t1"}
	failing := new(mocks.Notifier)
	failing.On("Notify", mock.Anything, note).Return(errors.New("offline")).Once()
	healthy := new(mocks.Notifier)
	healthy.On("Notify", mock.Anything, note).Return(nil).Once()

	err := notify.Fanout{failing, nil, healthy}.Notify(context.Background(), note)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
	failing.AssertExpectations(t)
	healthy.AssertExpectations(t)
}

func TestFanout_Empty(t *testing.T) {
	require.NoError(t, notify.Fanout{}.Notify(context.Background(), chat.Notification{}))
}
