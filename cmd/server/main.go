package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/threadhub/internal/config"
	"github.com/rpggio/threadhub/internal/domain/activity"
	"github.com/rpggio/threadhub/internal/domain/chat"
	"github.com/rpggio/threadhub/internal/domain/identity"
	"github.com/rpggio/threadhub/internal/mcp"
	"github.com/rpggio/threadhub/internal/notify"
	"github.com/rpggio/threadhub/internal/queue"
	"github.com/rpggio/threadhub/internal/realtime"
	"github.com/rpggio/threadhub/internal/sqlite"
	"github.com/rpggio/threadhub/internal/transport"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return err
	}
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)

	client, workers, err := newQueue(cfg.Queue, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	hub := realtime.NewHub(logger)
	defer hub.Close()

	engine := chat.NewEngine(chat.Options{
		Registry:      identity.DefaultRegistry(),
		Queue:         client,
		Notifier:      notify.Fanout{notify.NewLogNotifier(logger), hub},
		Activities:    activitySvc,
		ReplyDelay:    cfg.Chat.ReplyDelay,
		PreviewLength: cfg.Chat.PreviewLength,
		Logger:        logger,
	})
	chat.RegisterReplyTask(workers, engine)

	mcpServer := mcp.NewServer(mcp.Config{
		Chat:     engine,
		Activity: activitySvc,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return workers.Run(gctx)
	})

	if cfg.Transport.Mode == config.TransportStdio {
		g.Go(func() error {
			// Closing stdin ends the session and the process with it.
			defer stop()
			logger.Info("starting stdio transport")
			return mcpServer.Run(gctx, &sdkmcp.StdioTransport{})
		})
	} else {
		router := transport.NewServer(transport.Options{
			RPC:           mcp.NewHandler(engine, activitySvc),
			MCP:           newMCPHandler(mcpServer),
			Notifications: hub,
			Logger:        logger,
		})
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logger.Info("server listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			hub.Close()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newQueue(cfg config.QueueConfig, logger *slog.Logger) (queue.Client, queue.Server, error) {
	switch cfg.Backend {
	case config.QueueAsynq:
		acfg := queue.AsynqConfig{RedisURL: cfg.RedisURL, Concurrency: cfg.Concurrency}
		client, err := queue.NewAsynqClient(acfg)
		if err != nil {
			return nil, nil, err
		}
		srv, err := queue.NewAsynqServer(acfg, logger)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		logger.Info("using asynq reply queue")
		return client, srv, nil
	default:
		q := queue.NewMemoryQueue(logger)
		return q, q, nil
	}
}

func newMCPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
