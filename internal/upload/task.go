package upload

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/tecnojuy/aula/internal/api"
)

// Status is the lifecycle of a Task.
type Status int

const (
	StatusPending Status = iota
	StatusUploading
	StatusSuccess
	StatusError
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusUploading:
		return "uploading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Done reports whether s is terminal.
func (s Status) Done() bool {
	return s == StatusSuccess || s == StatusError || s == StatusCancelled
}

// Event is published on Task.Events for every progress step and once more
// when the task finishes.
type Event struct {
	TaskID  string
	Percent int
	Status  Status
	Result  api.UploadResult
	Err     error
}

const eventBuffer = 32

// Task is an upload running in the background.
type Task struct {
	ID     string
	File   string
	Folder string

	mu      sync.Mutex
	status  Status
	percent int
	result  api.UploadResult
	err     error

	cancel context.CancelFunc
	done   chan struct{}
	events chan Event
}

// Start launches Upload in its own goroutine and returns a handle to it.
func (u *Uploader) Start(ctx context.Context, file File, folder string) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		ID:     uuid.NewString(),
		File:   file.Name,
		Folder: folder,
		cancel: cancel,
		done:   make(chan struct{}),
		events: make(chan Event, eventBuffer),
	}
	go t.run(ctx, u, file)
	return t
}

func (t *Task) run(ctx context.Context, u *Uploader, file File) {
	defer t.cancel()
	t.setStatus(StatusUploading)
	res, err := u.Upload(ctx, file, t.Folder, func(pct int) {
		t.mu.Lock()
		t.percent = pct
		t.mu.Unlock()
		if pct < 100 {
			select {
			case t.events <- Event{TaskID: t.ID, Percent: pct, Status: StatusUploading}:
			default:
			}
		}
	})

	t.mu.Lock()
	switch {
	case err == nil:
		t.status = StatusSuccess
		t.result = res
		t.percent = 100
	case errors.Is(err, context.Canceled):
		t.status = StatusCancelled
		t.err = err
	default:
		t.status = StatusError
		t.err = err
	}
	final := Event{TaskID: t.ID, Percent: t.percent, Status: t.status, Result: t.result, Err: t.err}
	t.mu.Unlock()

	t.publishFinal(final)
	close(t.events)
	close(t.done)
}

// publishFinal drops the oldest queued events until the final one fits.
func (t *Task) publishFinal(ev Event) {
	for {
		select {
		case t.events <- ev:
			return
		default:
			select {
			case <-t.events:
			default:
			}
		}
	}
}

func (t *Task) setStatus(s Status) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Events is closed after the final event.
func (t *Task) Events() <-chan Event {
	return t.events
}

func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Task) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percent
}

// Cancel aborts the transfer. It is safe to call after completion.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (api.UploadResult, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return api.UploadResult{}, ctx.Err()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}
