package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, cfg Config) *Resolver {
	t.Helper()
	r, err := NewResolver(cfg, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func TestResolve_Production(t *testing.T) {
	r := newTestResolver(t, Config{APIBase: "https://api.example.test/", DevProxyPrefix: "/api"})

	assert.Equal(t, "https://api.example.test/auth/me", r.Resolve("/auth/me"))
	assert.Equal(t, "https://api.example.test/auth/me", r.Resolve("auth/me"))
	assert.Equal(t, "https://api.example.test/courses/", r.Resolve("/courses/"))
	assert.False(t, r.Dev())
}

func TestResolve_ForcesHTTPS(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://api.example.test", "https://api.example.test/posts"},
		{"api.example.test", "https://api.example.test/posts"},
		{"HTTP://api.example.test", "https://api.example.test/posts"},
		{"", DefaultAPIBase + "/posts"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			r := newTestResolver(t, Config{APIBase: tt.base})
			got := r.Resolve("/posts")
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(got, "https://"))
		})
	}
}

func TestResolve_DevPrefix(t *testing.T) {
	r := newTestResolver(t, Config{
		APIBase:        DefaultAPIBase,
		Origin:         "http://localhost:4321",
		DevProxyPrefix: "/api",
	})

	assert.True(t, r.Dev())
	assert.Equal(t, "/api/auth/me", r.Resolve("/auth/me"))
	assert.Equal(t, "http://localhost:4321/api/auth/me", r.Absolute("/auth/me"))
	assert.Equal(t, "http://localhost:4321/api/auth/google/login", r.LoginURL())
	assert.Equal(t, "http://localhost:4321/", r.HomeURL())
	assert.Equal(t, "localhost:4321", r.CookieURL().Host)
}

func TestResolve_CollapsesSlashesOutsideQuery(t *testing.T) {
	r := newTestResolver(t, Config{Origin: "http://127.0.0.1:4321", DevProxyPrefix: "/api/"})

	assert.Equal(t, "/api/storage/file/a/b.png", r.Resolve("//storage//file/a//b.png"))
	assert.Equal(t, "/api/storage/download-url?object_key=a//b", r.Resolve("/storage/download-url?object_key=a//b"))

	prod := newTestResolver(t, Config{APIBase: "https://api.example.test"})
	assert.Equal(t, "https://api.example.test/blog/posts?next=http://x", prod.Resolve("//blog//posts?next=http://x"))
}

func TestResolve_LogsResolvedURL(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	r, err := NewResolver(Config{APIBase: "https://api.example.test"}, log)
	require.NoError(t, err)

	r.Resolve("/auth/me")
	assert.Contains(t, buf.String(), "resolved api url")
	assert.Contains(t, buf.String(), "https://api.example.test/auth/me")
}

func TestLoginURL_Production(t *testing.T) {
	r := newTestResolver(t, Config{APIBase: "https://api.example.test"})
	assert.Equal(t, "https://api.example.test/auth/google/login", r.LoginURL())
	assert.Equal(t, "https://api.example.test/", r.HomeURL())
	assert.Equal(t, "api.example.test", r.CookieURL().Host)
}
