// Package cookiestore keeps the backend's session cookies across runs.
//
// The store wraps net/http/cookiejar for request-time matching and mirrors
// the backend's cookies into a small TOML file so a later invocation can
// reuse the session. Only cookies for the configured backend host are
// persisted.
package cookiestore

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	toml "github.com/pelletier/go-toml/v2"
)

// Cookie names set by the backend.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Store is an http.CookieJar backed by a file.
type Store struct {
	mu      sync.Mutex
	path    string
	base    *url.URL
	jar     *cookiejar.Jar
	cookies map[string]savedCookie
	now     func() time.Time
}

var _ http.CookieJar = (*Store)(nil)

type savedCookie struct {
	Name     string `toml:"name"`
	Value    string `toml:"value"`
	Path     string `toml:"path"`
	Expires  string `toml:"expires,omitempty"`
	Secure   bool   `toml:"secure"`
	HTTPOnly bool   `toml:"http_only"`
}

type cookieFile struct {
	Host    string        `toml:"host"`
	Cookies []savedCookie `toml:"cookie"`
}

// Open loads the cookies saved at path for base. A missing file yields an
// empty store.
func Open(path string, base *url.URL) (*Store, error) {
	if base == nil {
		return nil, fmt.Errorf("base url is nil")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	s := &Store{
		path:    path,
		base:    base,
		jar:     jar,
		cookies: make(map[string]savedCookie),
		now:     time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open session file: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}
	var saved cookieFile
	if err := toml.Unmarshal(bytes, &saved); err != nil {
		return fmt.Errorf("parse session file: %w", err)
	}
	// a file written for another backend is ignored
	if saved.Host != "" && saved.Host != s.base.Host {
		return nil
	}

	var restore []*http.Cookie
	for _, sc := range saved.Cookies {
		c := sc.httpCookie()
		if !c.Expires.IsZero() && !c.Expires.After(s.now()) {
			continue
		}
		s.cookies[c.Name] = sc
		restore = append(restore, c)
	}
	s.jar.SetCookies(s.base, restore)
	return nil
}

// SetCookies implements http.CookieJar and persists backend cookies.
func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jar.SetCookies(u, cookies)
	if u.Hostname() != s.base.Hostname() {
		return
	}
	changed := false
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(s.now())) {
			if _, ok := s.cookies[c.Name]; ok {
				delete(s.cookies, c.Name)
				changed = true
			}
			continue
		}
		s.cookies[c.Name] = fromHTTPCookie(c, s.now())
		changed = true
	}
	if changed {
		// the jar already holds the cookies; a failed write only loses them
		// for the next process
		_ = s.saveLocked()
	}
}

// Cookies implements http.CookieJar.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	jar := s.jar
	s.mu.Unlock()
	return jar.Cookies(u)
}

// HasRefreshCredential reports whether an unexpired refresh cookie is held.
func (s *Store) HasRefreshCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cookies[RefreshCookie]
	if !ok || c.Value == "" {
		return false
	}
	exp := c.httpCookie().Expires
	return exp.IsZero() || exp.After(s.now())
}

// AccessExpiry returns when the access token expires. The token is decoded
// without verifying its signature; only the exp claim is read. It falls back
// to the cookie's own expiry.
func (s *Store) AccessExpiry() (time.Time, bool) {
	s.mu.Lock()
	c, ok := s.cookies[AccessCookie]
	s.mu.Unlock()
	if !ok || c.Value == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Value, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time, true
		}
	}
	if exp := c.httpCookie().Expires; !exp.IsZero() {
		return exp, true
	}
	return time.Time{}, false
}

// Import stores cookie values copied from a browser session.
func (s *Store) Import(access, refresh string) error {
	if access == "" && refresh == "" {
		return fmt.Errorf("no cookie values to import")
	}
	var cookies []*http.Cookie
	secure := s.base.Scheme == "https"
	if access != "" {
		cookies = append(cookies, &http.Cookie{Name: AccessCookie, Value: access, Path: "/", Secure: secure, HttpOnly: true})
	}
	if refresh != "" {
		cookies = append(cookies, &http.Cookie{Name: RefreshCookie, Value: refresh, Path: "/", Secure: secure, HttpOnly: true})
	}
	s.SetCookies(s.base, cookies)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// Clear forgets every cookie and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	s.jar = jar
	s.cookies = make(map[string]savedCookie)
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Names lists the names of the cookies currently held, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.cookies))
	for name := range s.cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	out := cookieFile{Host: s.base.Host}
	for _, name := range sortedKeys(s.cookies) {
		out.Cookies = append(out.Cookies, s.cookies[name])
	}
	bytes, err := toml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]savedCookie) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fromHTTPCookie(c *http.Cookie, now time.Time) savedCookie {
	sc := savedCookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HttpOnly,
	}
	if sc.Path == "" {
		sc.Path = "/"
	}
	switch {
	case c.MaxAge > 0:
		sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second).UTC().Format(time.RFC3339)
	case !c.Expires.IsZero():
		sc.Expires = c.Expires.UTC().Format(time.RFC3339)
	}
	return sc
}

func (sc savedCookie) httpCookie() *http.Cookie {
	c := &http.Cookie{
		Name:     sc.Name,
		Value:    sc.Value,
		Path:     sc.Path,
		Secure:   sc.Secure,
		HttpOnly: sc.HTTPOnly,
	}
	if sc.Expires != "" {
		if t, err := time.Parse(time.RFC3339, sc.Expires); err == nil {
			c.Expires = t
		}
	}
	return c
}
