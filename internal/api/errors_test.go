package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDetailMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", 400, `{"detail":"Curso no encontrado"}`, "Curso no encontrado"},
		{"detail list", 422, `{"detail":[{"loc":["body","title"],"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"empty detail", 500, `{"detail":""}`, "HTTP 500"},
		{"null detail", 500, `{"detail":null}`, "HTTP 500"},
		{"no detail", 404, `{"error":"x"}`, "HTTP 404"},
		{"json array", 502, `[1,2]`, "HTTP 502"},
		{"html body", 502, `<html>Bad gateway</html>`, "Network error"},
		{"empty body", 503, ``, "Network error"},
		{"object detail", 400, `{"detail":{"code":7}}`, `{"code":7}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detailMessage(tt.status, []byte(tt.body)); got != tt.want {
				t.Fatalf("detailMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorFromResponseKinds(t *testing.T) {
	err := errorFromResponse(401, []byte(`{"detail":"Not authenticated"}`))
	if !IsUnauthorized(err) {
		t.Fatalf("401 not classified as unauthorized: %+v", err)
	}
	if err.Error() != "Not authenticated" {
		t.Fatalf("Error() = %q, want backend detail", err.Error())
	}

	err = errorFromResponse(500, []byte(`{"detail":"boom"}`))
	if !errors.Is(err, ErrServer) || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("500 kind = %v, want server", err.Kind)
	}
}

func TestErrorIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("refresh session: %w", &Error{Kind: KindAuth, Status: 401, Message: "expired"})
	if !errors.Is(wrapped, ErrUnauthorized) {
		t.Fatalf("errors.Is through wrap = false")
	}
	var apiErr *Error
	if !errors.As(wrapped, &apiErr) || apiErr.Status != 401 {
		t.Fatalf("errors.As = %v", apiErr)
	}
}

func TestTransportError(t *testing.T) {
	if err := transportError(context.DeadlineExceeded); err.Kind != KindTimeout {
		t.Fatalf("deadline kind = %v, want timeout", err.Kind)
	}
	err := transportError(context.Canceled)
	if err.Kind != KindNetwork || !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled = %+v, want network wrapping context.Canceled", err)
	}
	if err := transportError(errors.New("dial tcp: refused")); err.Message != "Network error" {
		t.Fatalf("message = %q, want Network error", err.Message)
	}
}

func TestErrorMessageFallsBackToKind(t *testing.T) {
	if got := (&Error{Kind: KindDecode}).Error(); got != "decode error" {
		t.Fatalf("Error() = %q", got)
	}
}
