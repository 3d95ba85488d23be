package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

// Config captures everything aula needs to reach the backend and keep local state.
type Config struct {
	APIBase           string        `env:"AULA_API_BASE, overwrite"`
	Origin            string        `env:"AULA_ORIGIN, overwrite"`
	DevProxyPrefix    string        `env:"AULA_DEV_PROXY_PREFIX, overwrite"`
	DevBackend        string        `env:"AULA_DEV_BACKEND, overwrite"`
	DevListen         string        `env:"AULA_DEV_LISTEN, overwrite"`
	SessionPath       string        `env:"AULA_SESSION_PATH, overwrite"`
	LogPath           string        `env:"AULA_LOG_PATH, overwrite"`
	LogLevel          string        `env:"AULA_LOG_LEVEL, overwrite"`
	Debug             bool          `env:"AULA_DEBUG, overwrite"`
	RequestTimeout    time.Duration `env:"AULA_REQUEST_TIMEOUT, overwrite"`
	SessionCheckDelay time.Duration `env:"AULA_SESSION_CHECK_DELAY, overwrite"`

	Upload UploadConfig
}

// UploadConfig tunes the proxy upload path.
type UploadConfig struct {
	MaxSize            int64         `env:"AULA_UPLOAD_MAX_SIZE, overwrite"`
	LargeFileThreshold int64         `env:"AULA_UPLOAD_LARGE_THRESHOLD, overwrite"`
	SmallTimeout       time.Duration `env:"AULA_UPLOAD_SMALL_TIMEOUT, overwrite"`
	LargeTimeout       time.Duration `env:"AULA_UPLOAD_LARGE_TIMEOUT, overwrite"`
	StallAfter         time.Duration `env:"AULA_UPLOAD_STALL_AFTER, overwrite"`
	StallSample        time.Duration `env:"AULA_UPLOAD_STALL_SAMPLE, overwrite"`
}

const (
	defaultConfigPath  = "~/.config/aula/config.toml"
	defaultSessionPath = "~/.config/aula/session.toml"
	defaultLogPath     = "~/.local/state/aula/aula.log"

	// DefaultAPIBase is the production backend.
	DefaultAPIBase = "https://backend-tecnojuy2-production.up.railway.app"

	defaultDevProxyPrefix = "/api"
	defaultDevBackend     = "http://localhost:8000"
	defaultDevListen      = "127.0.0.1:4321"
	defaultLogLevel       = "info"

	defaultRequestTimeout    = 30 * time.Second
	defaultSessionCheckDelay = 50 * time.Millisecond

	defaultUploadMaxSize      = 10 << 20
	defaultLargeFileThreshold = 50 << 20
	defaultSmallTimeout       = 5 * time.Minute
	defaultLargeTimeout       = 30 * time.Minute
	defaultStallAfter         = 30 * time.Second
	defaultStallSample        = 5 * time.Second
)

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		APIBase:           DefaultAPIBase,
		DevProxyPrefix:    defaultDevProxyPrefix,
		DevBackend:        defaultDevBackend,
		DevListen:         defaultDevListen,
		SessionPath:       mustExpand(defaultSessionPath),
		LogPath:           mustExpand(defaultLogPath),
		LogLevel:          defaultLogLevel,
		RequestTimeout:    defaultRequestTimeout,
		SessionCheckDelay: defaultSessionCheckDelay,
		Upload: UploadConfig{
			MaxSize:            defaultUploadMaxSize,
			LargeFileThreshold: defaultLargeFileThreshold,
			SmallTimeout:       defaultSmallTimeout,
			LargeTimeout:       defaultLargeTimeout,
			StallAfter:         defaultStallAfter,
			StallSample:        defaultStallSample,
		},
	}
}

type rawConfig struct {
	APIBase           string    `toml:"api_base"`
	Origin            string    `toml:"origin"`
	DevProxyPrefix    string    `toml:"dev_proxy_prefix"`
	DevBackend        string    `toml:"dev_backend"`
	DevListen         string    `toml:"dev_listen"`
	SessionPath       string    `toml:"session_path"`
	LogPath           string    `toml:"log_path"`
	LogLevel          string    `toml:"log_level"`
	Debug             bool      `toml:"debug"`
	RequestTimeout    string    `toml:"request_timeout"`
	SessionCheckDelay string    `toml:"session_check_delay"`
	Upload            rawUpload `toml:"upload"`
}

type rawUpload struct {
	MaxSize            int64  `toml:"max_size"`
	LargeFileThreshold int64  `toml:"large_file_threshold"`
	SmallTimeout       string `toml:"small_timeout"`
	LargeTimeout       string `toml:"large_timeout"`
	StallAfter         string `toml:"stall_after"`
	StallSample        string `toml:"stall_sample"`
}

// Load reads the config file at path (or the default location), falls back to
// defaults when it is missing and finally applies AULA_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw rawConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.apply(raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return Config{}, fmt.Errorf("environment overrides: %w", err)
	}
	cfg.SessionPath = mustExpand(cfg.SessionPath)
	cfg.LogPath = mustExpand(cfg.LogPath)
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	setString(&c.APIBase, raw.APIBase)
	setString(&c.Origin, raw.Origin)
	setString(&c.DevProxyPrefix, raw.DevProxyPrefix)
	setString(&c.DevBackend, raw.DevBackend)
	setString(&c.DevListen, raw.DevListen)
	setString(&c.SessionPath, raw.SessionPath)
	setString(&c.LogPath, raw.LogPath)
	setString(&c.LogLevel, raw.LogLevel)
	c.Debug = raw.Debug

	if raw.Upload.MaxSize > 0 {
		c.Upload.MaxSize = raw.Upload.MaxSize
	}
	if raw.Upload.LargeFileThreshold > 0 {
		c.Upload.LargeFileThreshold = raw.Upload.LargeFileThreshold
	}

	durations := []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"session_check_delay", raw.SessionCheckDelay, &c.SessionCheckDelay},
		{"upload.small_timeout", raw.Upload.SmallTimeout, &c.Upload.SmallTimeout},
		{"upload.large_timeout", raw.Upload.LargeTimeout, &c.Upload.LargeTimeout},
		{"upload.stall_after", raw.Upload.StallAfter, &c.Upload.StallAfter},
		{"upload.stall_sample", raw.Upload.StallSample, &c.Upload.StallSample},
	}
	for _, d := range durations {
		value := strings.TrimSpace(d.value)
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dest = parsed
	}
	return nil
}

// IsDev reports whether the configured origin is a local development host.
// In that mode API calls go through the dev proxy prefix on the same origin.
func (c Config) IsDev() bool {
	origin := strings.TrimSpace(c.Origin)
	if origin == "" {
		return false
	}
	if !strings.Contains(origin, "://") {
		origin = "http://" + origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
		return true
	}
	return false
}

func setString(dest *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dest = trimmed
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath trims path, expands a leading ~ to the home directory and makes
// the result absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
