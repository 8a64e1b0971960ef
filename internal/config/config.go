package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Queue backends.
const (
	QueueMemory = "memory"
	QueueAsynq  = "asynq"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Chat      ChatConfig      `yaml:"chat"`
	Queue     QueueConfig     `yaml:"queue"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type ChatConfig struct {
	ReplyDelay    time.Duration `yaml:"reply_delay"`
	PreviewLength int           `yaml:"preview_length"`
}

type QueueConfig struct {
	Backend     string `yaml:"backend"`
	RedisURL    string `yaml:"redis_url"`
	Concurrency int    `yaml:"concurrency"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		DB: DBConfig{
			Path: "threadhub.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Chat: ChatConfig{
			ReplyDelay:    1500 * time.Millisecond,
			PreviewLength: 60,
		},
		Queue: QueueConfig{
			Backend:     QueueMemory,
			Concurrency: 10,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("THREADHUB_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Transport.Mode {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Queue.Backend {
	case QueueMemory:
	case QueueAsynq:
		if c.Queue.RedisURL == "" {
			return errors.New("queue backend asynq requires redis_url")
		}
	default:
		return fmt.Errorf("invalid queue backend %q", c.Queue.Backend)
	}
	if c.Chat.ReplyDelay < 0 {
		return fmt.Errorf("invalid reply delay %s", c.Chat.ReplyDelay)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("THREADHUB_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("THREADHUB_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid THREADHUB_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("THREADHUB_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("THREADHUB_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("THREADHUB_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("THREADHUB_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if delayStr := os.Getenv("THREADHUB_REPLY_DELAY"); delayStr != "" {
		delay, err := time.ParseDuration(delayStr)
		if err != nil {
			return fmt.Errorf("invalid THREADHUB_REPLY_DELAY: %w", err)
		}
		cfg.Chat.ReplyDelay = delay
	}
	if previewStr := os.Getenv("THREADHUB_PREVIEW_LENGTH"); previewStr != "" {
		n, err := strconv.Atoi(previewStr)
		if err != nil {
			return fmt.Errorf("invalid THREADHUB_PREVIEW_LENGTH: %w", err)
		}
		cfg.Chat.PreviewLength = n
	}
	if backend := os.Getenv("THREADHUB_QUEUE_BACKEND"); backend != "" {
		cfg.Queue.Backend = backend
	}
	if redisURL := os.Getenv("THREADHUB_REDIS_URL"); redisURL != "" {
		cfg.Queue.RedisURL = redisURL
	}
	if concStr := os.Getenv("THREADHUB_QUEUE_CONCURRENCY"); concStr != "" {
		n, err := strconv.Atoi(concStr)
		if err != nil {
			return fmt.Errorf("invalid THREADHUB_QUEUE_CONCURRENCY: %w", err)
		}
		cfg.Queue.Concurrency = n
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
