package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/threadhub/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("THREADHUB_CONFIG_PATH", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, 1500*time.Millisecond, cfg.Chat.ReplyDelay)
	require.Equal(t, config.QueueMemory, cfg.Queue.Backend)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
transport:
  mode: stdio
chat:
  reply_delay: 250ms
  preview_length: 40
queue:
  backend: asynq
  redis_url: redis://localhost:6379/0
`), 0o644))

	t.Setenv("THREADHUB_CONFIG_PATH", path)
	t.Setenv("THREADHUB_SERVER_PORT", "7070")
	t.Setenv("THREADHUB_REPLY_DELAY", "2s")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, config.TransportStdio, cfg.Transport.Mode)
	require.Equal(t, 2*time.Second, cfg.Chat.ReplyDelay)
	require.Equal(t, 40, cfg.Chat.PreviewLength)
	require.Equal(t, config.QueueAsynq, cfg.Queue.Backend)
	require.Equal(t, "redis://localhost:6379/0", cfg.Queue.RedisURL)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_InvalidEnv(t *testing.T) {
	cases := map[string]string{
		"THREADHUB_SERVER_PORT":       "eighty",
		"THREADHUB_REPLY_DELAY":       "soon",
		"THREADHUB_PREVIEW_LENGTH":    "long",
		"THREADHUB_QUEUE_CONCURRENCY": "many",
		"THREADHUB_TRANSPORT_MODE":    "carrier-pigeon",
		"THREADHUB_QUEUE_BACKEND":     "kafka",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("THREADHUB_CONFIG_PATH", "")
			t.Setenv(key, value)
			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestValidate_AsynqNeedsRedis(t *testing.T) {
	cfg := config.Default()
	cfg.Queue.Backend = config.QueueAsynq
	require.Error(t, cfg.Validate())

	cfg.Queue.RedisURL = "redis://localhost:6379"
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("THREADHUB_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := config.Load()
	require.Error(t, err)
}
