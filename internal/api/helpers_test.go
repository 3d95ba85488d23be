package api

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/config"
)

// newTestClient serves handler behind the dev proxy prefix so requests
// resolve to <server>/api/... just like a local development origin.
func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.StripPrefix("/api", handler))
	t.Cleanup(server.Close)

	resolver, err := config.NewResolver(config.Config{Origin: server.URL, DevProxyPrefix: "/api"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New returned error: %v", err)
	}
	return NewClient(resolver, jar, zerolog.Nop(), opts...), server
}
