package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Kind classifies an API failure.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindServer
	KindAuth
	KindTimeout
	KindValidation
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindAuth:
		return "auth"
	case KindTimeout:
		return "timeout"
	case KindValidation:
		return "validation"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

const networkErrorMessage = "Network error"

// Error is the single error type surfaced by the client. Error() returns the
// human-readable message so callers can display it unchanged.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so errors.Is(err, ErrUnauthorized) works for any 401.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrServer       = &Error{Kind: KindServer}
	ErrUnauthorized = &Error{Kind: KindAuth}
	ErrTimeout      = &Error{Kind: KindTimeout}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrDecode       = &Error{Kind: KindDecode}
)

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// ValidationError builds a client-side validation failure.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func errorFromResponse(status int, body []byte) *Error {
	kind := KindServer
	if status == http.StatusUnauthorized {
		kind = KindAuth
	}
	return &Error{Kind: kind, Status: status, Message: detailMessage(status, body)}
}

// detailMessage extracts the backend's {"detail": ...} payload. Bodies that
// are not JSON at all produce the generic network message; JSON without a
// usable detail falls back to "HTTP <status>".
func detailMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return networkErrorMessage
	}
	fallback := "HTTP " + strconv.Itoa(status)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return fallback
	}
	raw, ok := payload["detail"]
	if !ok {
		return fallback
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" {
			return fallback
		}
		return text
	}

	// FastAPI validation errors: [{"loc": [...], "msg": "...", "type": "..."}]
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if m := strings.TrimSpace(item.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
		return fallback
	}

	if string(raw) == "null" {
		return fallback
	}
	return string(raw)
}

func transportError(err error) *Error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Kind: KindTimeout, Message: "Request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindNetwork, Message: "Request cancelled", Err: err}
	default:
		return &Error{Kind: KindNetwork, Message: networkErrorMessage, Err: err}
	}
}
