package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/config"
)

const (
	defaultUserAgent = "aula/0.1"
	defaultTimeout   = 30 * time.Second
	jsonContentType  = "application/json"
)

// Client talks to the platform REST API. Cookies from the jar are sent with
// every request; the client never retries on its own.
type Client struct {
	resolver  *config.Resolver
	http      *http.Client
	timeout   time.Duration
	userAgent string
	log       zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is kept if set.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout used when the caller's context has
// no deadline of its own.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client that resolves URLs with resolver and carries
// credentials in jar.
func NewClient(resolver *config.Resolver, jar http.CookieJar, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		resolver:  resolver,
		http:      &http.Client{},
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		log:       log.With().Str("component", "api").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}
	return c
}

// Request describes one API call.
type Request struct {
	Endpoint config.Endpoint
	Params   []any
	Query    Query
	// Body is JSON-encoded when set.
	Body any
	// Raw is sent as-is with ContentType (multipart uploads). It wins over Body.
	Raw         io.Reader
	ContentType string
	// Length is the size of Raw when known.
	Length int64
}

// Path is the endpoint path including the encoded query.
func (r Request) Path() string {
	path := r.Endpoint.Path(r.Params...)
	if q := r.Query.Encode(); q != "" {
		path += "?" + q
	}
	return path
}

func (r Request) body() (io.Reader, string, error) {
	if r.Raw != nil {
		return r.Raw, r.ContentType, nil
	}
	if r.Body == nil {
		return nil, jsonContentType, nil
	}
	data, err := json.Marshal(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), jsonContentType, nil
}

// Do performs req and decodes a successful JSON response into dest (which may
// be nil). Failures are returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, contentType, err := req.body()
	if err != nil {
		return err
	}
	method := req.Endpoint.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.resolver.Absolute(req.Path())
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if req.Raw != nil && req.Length > 0 {
		httpReq.ContentLength = req.Length
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", jsonContentType)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		apiErr := transportError(err)
		c.log.Debug().Err(err).Str("endpoint", req.Endpoint.Key).Str("request_id", requestID).Msg("request failed")
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}
	c.log.Debug().
		Str("endpoint", req.Endpoint.Key).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Str("request_id", requestID).
		Msg("api request")

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp.StatusCode, data)
	}
	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "Invalid server response", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Get fetches an arbitrary relative path, mirroring the generic helper other
// callers use for endpoints outside the table.
func (c *Client) Get(ctx context.Context, path string, dest any) error {
	ep := config.Endpoint{Key: "get", Method: http.MethodGet, Pattern: path}
	return c.Do(ctx, Request{Endpoint: ep}, dest)
}

// PutSigned uploads data to a pre-signed object storage URL. The URL carries
// its own authorization so no cookies are attached.
func (c *Client) PutSigned(ctx context.Context, uploadURL, contentType string, data []byte) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	plain := &http.Client{Transport: c.http.Transport}
	resp, err := plain.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("File upload failed: %s - %s", resp.Status, strings.TrimSpace(string(text))),
		}
	}
	return nil
}
