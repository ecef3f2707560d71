package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

type Config struct {
	Env string

	API       APIConfig
	Log       LogConfig
	Session   SessionConfig
	Redis     RedisConfig
	Downloads DownloadsConfig
	Exports   ExportsConfig
	Chat      ChatConfig
	Feed      FeedConfig
	Metrics   MetricsConfig
}

// APIConfig locates the remote learning platform.
type APIConfig struct {
	BaseURL string
	Prefix  string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// SessionConfig selects where the bearer token survives between runs.
type SessionConfig struct {
	Backend string
	Dir     string
	Key     string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DownloadsConfig controls where submission files are saved.
type DownloadsConfig struct {
	Dir string
}

// ExportsConfig controls where rendered reports are written.
type ExportsConfig struct {
	Dir string
}

// ChatConfig tunes the course chat poller.
type ChatConfig struct {
	PollInterval time.Duration
	Limit        int
}

type FeedConfig struct {
	Limit int
}

// MetricsConfig enables the Prometheus endpoint for long-running commands.
type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Prefix:  normalizePrefix(v.GetString("API_PREFIX")),
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultBaseURL
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
		File:   v.GetString("LOG_FILE"),
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("SESSION_BACKEND")))
	if backend != SessionBackendRedis {
		backend = SessionBackendFile
	}
	cfg.Session = SessionConfig{
		Backend: backend,
		Dir:     v.GetString("SESSION_DIR"),
		Key:     v.GetString("SESSION_KEY"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Downloads = DownloadsConfig{Dir: v.GetString("DOWNLOADS_DIR")}
	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR")}

	chatLimit := v.GetInt("CHAT_LIMIT")
	if chatLimit <= 0 || chatLimit > 200 {
		chatLimit = 50
	}
	cfg.Chat = ChatConfig{
		PollInterval: parseDuration(v.GetString("CHAT_POLL_INTERVAL"), 15*time.Second),
		Limit:        chatLimit,
	}

	feedLimit := v.GetInt("FEED_LIMIT")
	if feedLimit < 0 {
		feedLimit = 0
	}
	cfg.Feed = FeedConfig{Limit: feedLimit}

	cfg.Metrics = MetricsConfig{Addr: v.GetString("METRICS_ADDR")}

	return cfg, nil
}

const defaultBaseURL = "http://localhost:8000"

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("API_BASE_URL", defaultBaseURL)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_FILE", "")

	v.SetDefault("SESSION_BACKEND", SessionBackendFile)
	v.SetDefault("SESSION_DIR", defaultSessionDir())
	v.SetDefault("SESSION_KEY", "psb_token")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DOWNLOADS_DIR", "./downloads")
	v.SetDefault("EXPORTS_DIR", "./exports")

	v.SetDefault("CHAT_POLL_INTERVAL", "15s")
	v.SetDefault("CHAT_LIMIT", 50)
	v.SetDefault("FEED_LIMIT", 0)

	v.SetDefault("METRICS_ADDR", "")
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".lms"
	}
	return filepath.Join(home, ".lms")
}

func normalizePrefix(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return "/" + strings.Trim(raw, "/")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}
