package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/skratchdot/open-golang/open"
)

// Navigator moves the user somewhere: an absolute URL (OAuth) or an in-app
// route such as "/".
type Navigator interface {
	Navigate(target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string) error

func (f NavigatorFunc) Navigate(target string) error {
	return f(target)
}

// BrowserNavigator opens absolute URLs in the system browser. In-app routes
// are logged and otherwise ignored.
type BrowserNavigator struct {
	open func(string) error
	log  zerolog.Logger
}

func NewBrowserNavigator(log zerolog.Logger) *BrowserNavigator {
	return &BrowserNavigator{open: open.Run, log: log.With().Str("component", "navigator").Logger()}
}

func (b *BrowserNavigator) Navigate(target string) error {
	if !IsAbsoluteURL(target) {
		b.log.Debug().Str("route", target).Msg("in-app navigation")
		return nil
	}
	if err := b.open(target); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

// IsAbsoluteURL reports whether target has an http(s) scheme.
func IsAbsoluteURL(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}

// RecordingNavigator remembers every target. Used by the TUI to react to
// route changes and by tests.
type RecordingNavigator struct {
	mu      sync.Mutex
	targets []string
	Next    Navigator
}

func (r *RecordingNavigator) Navigate(target string) error {
	r.mu.Lock()
	r.targets = append(r.targets, target)
	next := r.Next
	r.mu.Unlock()
	if next != nil {
		return next.Navigate(target)
	}
	return nil
}

// Targets returns the recorded targets in order.
func (r *RecordingNavigator) Targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.targets))
	copy(out, r.targets)
	return out
}
