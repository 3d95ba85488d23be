package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/config"
)

// DefaultFolder is used when the caller does not name a destination folder.
const DefaultFolder = "courses"

// Client is the part of the backend client uploads use.
type Client interface {
	ProxyUpload(ctx context.Context, body io.Reader, contentType string, length int64) (api.UploadResult, error)
	UploadURL(ctx context.Context, in api.UploadURLRequest) (*api.UploadURLResponse, error)
	PutSigned(ctx context.Context, uploadURL, contentType string, data []byte) error
}

var _ Client = (*api.Client)(nil)

// Authenticator runs op under the session's refresh-and-retry-once policy.
type Authenticator interface {
	Do(ctx context.Context, op func(context.Context) error) error
}

type passthrough struct{}

func (passthrough) Do(ctx context.Context, op func(context.Context) error) error {
	return op(ctx)
}

// ProgressFunc receives percentages in [0,100]. Values never decrease.
type ProgressFunc func(percent int)

// Uploader sends files through the backend proxy.
type Uploader struct {
	client Client
	auth   Authenticator
	cfg    config.UploadConfig
	log    zerolog.Logger
}

// NewUploader wires an Uploader. A nil auth runs each transfer once with no
// refresh on 401.
func NewUploader(client Client, auth Authenticator, cfg config.UploadConfig, log zerolog.Logger) *Uploader {
	if auth == nil {
		auth = passthrough{}
	}
	return &Uploader{
		client: client,
		auth:   auth,
		cfg:    cfg,
		log:    log.With().Str("component", "upload").Logger(),
	}
}

// Timeout is the transfer deadline for a payload of n bytes.
func (u *Uploader) Timeout(n int64) time.Duration {
	if u.cfg.LargeFileThreshold > 0 && n > u.cfg.LargeFileThreshold {
		return u.cfg.LargeTimeout
	}
	return u.cfg.SmallTimeout
}

// Upload streams file to the proxy endpoint as multipart form data with
// fields "file" and "folder". Progress reaches 100 only after the server
// confirms the object; a 401 triggers one session refresh and one resend.
func (u *Uploader) Upload(ctx context.Context, file File, folder string, onProgress ProgressFunc) (api.UploadResult, error) {
	if err := api.Validate(file); err != nil {
		return api.UploadResult{}, err
	}
	if file.Size() == 0 {
		return api.UploadResult{}, api.ValidationError("file is empty")
	}
	if folder == "" {
		folder = DefaultFolder
	}
	body, contentType, err := api.EncodeMultipart(api.FormFile{
		Field:       "file",
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	}, map[string]string{"folder": folder})
	if err != nil {
		return api.UploadResult{}, err
	}

	timeout := u.Timeout(file.Size())
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := newProgress(onProgress)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		u.watchStall(ctx, done, p, file.Name)
	}()

	started := time.Now()
	u.log.Info().Str("file", file.Name).Int64("size", file.Size()).Str("folder", folder).Dur("timeout", timeout).Msg("upload started")

	var result api.UploadResult
	err = u.auth.Do(ctx, func(ctx context.Context) error {
		r := &countingReader{r: bytes.NewReader(body), total: int64(len(body)), p: p}
		res, err := u.client.ProxyUpload(ctx, r, contentType, int64(len(body)))
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	close(done)
	wg.Wait()

	if err != nil {
		err = u.classify(ctx, err, timeout)
		u.log.Warn().Err(err).Str("file", file.Name).Dur("elapsed", time.Since(started)).Msg("upload failed")
		return api.UploadResult{}, err
	}

	if result.ContentType == "" {
		result.ContentType = file.ContentType
	}
	if result.Size == 0 {
		result.Size = file.Size()
	}
	p.finish()
	u.log.Info().Str("file", file.Name).Str("object_key", result.ObjectKey).Dur("elapsed", time.Since(started)).Msg("upload complete")
	return result, nil
}

func (u *Uploader) classify(ctx context.Context, err error, timeout time.Duration) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, api.ErrTimeout):
		return &api.Error{Kind: api.KindTimeout, Message: fmt.Sprintf("Upload timed out after %s", timeout), Err: err}
	case errors.Is(err, context.Canceled):
		return &api.Error{Kind: api.KindNetwork, Message: "Upload cancelled", Err: err}
	}
	return err
}

// watchStall warns once per stall when no bytes have moved for StallAfter.
func (u *Uploader) watchStall(ctx context.Context, done <-chan struct{}, p *progress, name string) {
	if u.cfg.StallSample <= 0 || u.cfg.StallAfter <= 0 {
		return
	}
	ticker := time.NewTicker(u.cfg.StallSample)
	defer ticker.Stop()
	warned := false
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			idle := time.Since(p.lastActivity())
			if idle < u.cfg.StallAfter {
				warned = false
				continue
			}
			if !warned {
				warned = true
				u.log.Warn().Str("file", name).Dur("idle", idle).Int("percent", p.percent()).Msg("upload stalled")
			}
		}
	}
}

type progress struct {
	mu     sync.Mutex
	last   int
	report ProgressFunc
	active atomic.Int64
}

func newProgress(report ProgressFunc) *progress {
	p := &progress{report: report}
	p.active.Store(time.Now().UnixNano())
	return p
}

func (p *progress) lastActivity() time.Time {
	return time.Unix(0, p.active.Load())
}

func (p *progress) percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// update records sent bytes. Transfer progress is clamped to [1,99].
func (p *progress) update(sent, total int64) {
	p.active.Store(time.Now().UnixNano())
	pct := 99
	if total > 0 {
		pct = int(sent * 100 / total)
	}
	pct = max(1, min(pct, 99))
	p.set(pct)
}

func (p *progress) finish() {
	p.set(100)
}

func (p *progress) set(pct int) {
	p.mu.Lock()
	if pct <= p.last {
		p.mu.Unlock()
		return
	}
	p.last = pct
	p.mu.Unlock()
	if p.report != nil {
		p.report(pct)
	}
}

type countingReader struct {
	r     io.Reader
	total int64
	sent  int64
	p     *progress
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	if n > 0 {
		c.sent += int64(n)
		c.p.update(c.sent, c.total)
	}
	return n, err
}
