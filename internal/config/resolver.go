package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Resolver turns relative endpoint paths into request URLs.
type Resolver struct {
	base   string
	prefix string
	origin string
	dev    bool
	log    zerolog.Logger
}

// NewResolver builds a Resolver from cfg. Production bases are always
// rewritten to https.
func NewResolver(cfg Config, log zerolog.Logger) (*Resolver, error) {
	r := &Resolver{
		base:   secureBase(cfg.APIBase),
		prefix: normalizePath(cfg.DevProxyPrefix),
		dev:    cfg.IsDev(),
		log:    log.With().Str("component", "resolver").Logger(),
	}
	if r.prefix == "/" {
		r.prefix = defaultDevProxyPrefix
	}
	if r.dev {
		origin := strings.TrimSpace(cfg.Origin)
		if !strings.Contains(origin, "://") {
			origin = "http://" + origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return nil, fmt.Errorf("parse origin %q: %w", cfg.Origin, err)
		}
		r.origin = u.Scheme + "://" + u.Host
	}
	return r, nil
}

// Dev reports whether requests are routed through the local proxy prefix.
func (r *Resolver) Dev() bool {
	return r.dev
}

// Resolve maps an endpoint path to the URL a request should target. In dev
// mode the result is origin-relative ("/api/auth/me"); otherwise it is an
// absolute https URL on the configured backend.
func (r *Resolver) Resolve(endpointPath string) string {
	path := normalizePath(endpointPath)
	var resolved string
	if r.dev {
		resolved = collapseSlashes(r.prefix + path)
	} else {
		resolved = enforceHTTPS(r.base + collapseSlashes(path))
	}
	r.log.Debug().Str("endpoint", endpointPath).Str("url", resolved).Msg("resolved api url")
	return resolved
}

// Absolute is what the HTTP transport dials. It equals Resolve outside dev mode.
func (r *Resolver) Absolute(endpointPath string) string {
	resolved := r.Resolve(endpointPath)
	if !r.dev {
		return resolved
	}
	return r.origin + resolved
}

// LoginURL is the OAuth entry point the user is sent to for sign-in.
func (r *Resolver) LoginURL() string {
	return r.Absolute(AuthGoogleLogin.Path())
}

// HomeURL is the site root used after logout.
func (r *Resolver) HomeURL() string {
	if r.dev {
		return r.origin + "/"
	}
	return r.base + "/"
}

// CookieURL is the URL cookies are scoped to.
func (r *Resolver) CookieURL() *url.URL {
	raw := r.base
	if r.dev {
		raw = r.origin
	}
	u, err := url.Parse(raw + "/")
	if err != nil {
		return &url.URL{Scheme: "https", Host: "localhost", Path: "/"}
	}
	return u
}

func secureBase(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultAPIBase
	}
	trimmed = enforceHTTPS(trimmed)
	return strings.TrimRight(trimmed, "/")
}

func enforceHTTPS(raw string) string {
	idx := strings.Index(raw, "://")
	if idx < 0 {
		return "https://" + strings.TrimLeft(raw, "/")
	}
	if strings.EqualFold(raw[:idx], "https") {
		return raw
	}
	return "https" + raw[idx:]
}

func normalizePath(p string) string {
	trimmed := strings.TrimSpace(p)
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return trimmed
}

// collapseSlashes squeezes repeated "/" in the path part only.
func collapseSlashes(p string) string {
	path, rest := p, ""
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		path, rest = p[:i], p[i:]
	}
	var b strings.Builder
	b.Grow(len(p))
	prev := byte(0)
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' && prev == '/' {
			continue
		}
		b.WriteByte(c)
		prev = c
	}
	b.WriteString(rest)
	return b.String()
}
