package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != DefaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, DefaultAPIBase)
	}
	wantSession, err := ExpandPath(defaultSessionPath)
	if err != nil {
		t.Fatalf("ExpandPath(defaultSessionPath) returned error: %v", err)
	}
	if cfg.SessionPath != wantSession {
		t.Fatalf("SessionPath = %q, want %q", cfg.SessionPath, wantSession)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.SessionCheckDelay != 50*time.Millisecond {
		t.Fatalf("SessionCheckDelay = %v, want 50ms", cfg.SessionCheckDelay)
	}
	if cfg.Upload.MaxSize != 10<<20 {
		t.Fatalf("Upload.MaxSize = %d, want %d", cfg.Upload.MaxSize, 10<<20)
	}
	if cfg.IsDev() {
		t.Fatalf("IsDev = true, want false for default config")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  https://api.example.test  "
origin = "http://localhost:4321"
session_path = "  ~/.aula/session.toml  "
debug = true
request_timeout = "10s"

[upload]
large_file_threshold = 1024
stall_after = "2s"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "https://api.example.test" {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, "https://api.example.test")
	}
	if !strings.HasPrefix(cfg.SessionPath, home) {
		t.Fatalf("SessionPath = %q, want it under HOME %q", cfg.SessionPath, home)
	}
	if !cfg.Debug {
		t.Fatalf("Debug = false, want true")
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.Upload.LargeFileThreshold != 1024 {
		t.Fatalf("LargeFileThreshold = %d, want 1024", cfg.Upload.LargeFileThreshold)
	}
	if cfg.Upload.StallAfter != 2*time.Second {
		t.Fatalf("StallAfter = %v, want 2s", cfg.Upload.StallAfter)
	}
	if cfg.Upload.LargeTimeout != defaultLargeTimeout {
		t.Fatalf("LargeTimeout = %v, want default %v", cfg.Upload.LargeTimeout, defaultLargeTimeout)
	}
	if !cfg.IsDev() {
		t.Fatalf("IsDev = false, want true for localhost origin")
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "   "
log_level = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != DefaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, DefaultAPIBase)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AULA_API_BASE", "https://env.example.test")
	t.Setenv("AULA_UPLOAD_LARGE_TIMEOUT", "45m")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = "https://file.example.test"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "https://env.example.test" {
		t.Fatalf("APIBase = %q, want env value", cfg.APIBase)
	}
	if cfg.Upload.LargeTimeout != 45*time.Minute {
		t.Fatalf("LargeTimeout = %v, want 45m", cfg.Upload.LargeTimeout)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_base = "), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`request_timeout = "soon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "request_timeout") {
		t.Fatalf("Load error = %v, want request_timeout error", err)
	}
}

func TestIsDev(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"http://localhost:4321", true},
		{"http://127.0.0.1:4321", true},
		{"localhost:4321", true},
		{"https://tecnojuy.com", false},
		{"http://localhost.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			cfg := Config{Origin: tt.origin}
			if got := cfg.IsDev(); got != tt.want {
				t.Fatalf("IsDev(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/y.toml")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "y.toml") {
		t.Fatalf("ExpandPath = %q, want %q", got, filepath.Join(home, "x", "y.toml"))
	}
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath(blank) returned nil error")
	}
}
