package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	base := time.Minute
	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, time.Minute},
		{"negative failures", -1, time.Minute},
		{"one failure", 1, 2 * time.Minute},
		{"two failures", 2, 4 * time.Minute},
		{"three failures capped", 3, 5 * time.Minute},
		{"many failures capped", 50, 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateBackoff(tt.failures, base); got != tt.want {
				t.Fatalf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	for failures := 0; failures <= 64; failures++ {
		if got := calculateBackoff(failures, 2*time.Second); got > maxBackoff {
			t.Fatalf("calculateBackoff(%d) = %v, exceeds %v", failures, got, maxBackoff)
		}
	}
}

type fakeSession struct {
	mu       sync.Mutex
	store    *state.Store
	checks   int
	refresh  int
	courses  int
	userErr  error
	checkErr error
}

func (f *fakeSession) Snapshot() state.Snapshot { return f.store.Snapshot() }

func (f *fakeSession) CheckSession(context.Context) state.Snapshot {
	f.mu.Lock()
	f.checks++
	err := f.checkErr
	f.mu.Unlock()
	if err != nil {
		f.store.SetAnonymous(err)
	} else {
		f.store.SetUser(&api.User{ID: 1, RoleName: api.RoleAlumno})
	}
	return f.store.Snapshot()
}

func (f *fakeSession) RefreshUser(context.Context) {
	f.mu.Lock()
	f.refresh++
	err := f.userErr
	f.mu.Unlock()
	if err != nil {
		f.store.SetAnonymous(err)
	}
}

func (f *fakeSession) RefreshCourses(context.Context) error {
	f.mu.Lock()
	f.courses++
	f.mu.Unlock()
	f.store.SetCourses([]api.Course{{ID: 9}}, nil)
	return nil
}

func (f *fakeSession) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks, f.refresh, f.courses
}

func TestTick_AuthenticatedRefreshesUserAndCourses(t *testing.T) {
	store := &state.Store{}
	store.SetUser(&api.User{ID: 1})
	sess := &fakeSession{store: store}

	tick(context.Background(), sess, zerolog.Nop())

	checks, refresh, courses := sess.counts()
	if checks != 0 || refresh != 1 || courses != 1 {
		t.Fatalf("counts = %d/%d/%d, want 0/1/1", checks, refresh, courses)
	}
}

func TestTick_SkipsCoursesWhenUserRefreshFails(t *testing.T) {
	store := &state.Store{}
	store.SetUser(&api.User{ID: 1})
	sess := &fakeSession{store: store, userErr: errors.New("boom")}

	tick(context.Background(), sess, zerolog.Nop())

	_, refresh, courses := sess.counts()
	if refresh != 1 || courses != 0 {
		t.Fatalf("refresh=%d courses=%d, want 1/0", refresh, courses)
	}
}

func TestTick_AnonymousAfterLogoutIsIdle(t *testing.T) {
	store := &state.Store{}
	store.SetAnonymous(nil)
	sess := &fakeSession{store: store}

	tick(context.Background(), sess, zerolog.Nop())

	checks, refresh, courses := sess.counts()
	if checks+refresh+courses != 0 {
		t.Fatalf("anonymous tick made calls: %d/%d/%d", checks, refresh, courses)
	}
}

func TestTick_RetriesCheckAfterTransientFailure(t *testing.T) {
	store := &state.Store{}
	store.SetAnonymous(&api.Error{Kind: api.KindNetwork, Message: "Network error"})
	sess := &fakeSession{store: store}

	tick(context.Background(), sess, zerolog.Nop())

	checks, _, _ := sess.counts()
	if checks != 1 {
		t.Fatalf("checks = %d, want 1", checks)
	}
	if !store.Snapshot().Authenticated() {
		t.Fatalf("session not restored after retry")
	}
}

func TestStartPoller_InitialCheckLoadsCourses(t *testing.T) {
	sess := &fakeSession{store: &state.Store{}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, sess, time.Hour, zerolog.Nop())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if checks, _, courses := sess.counts(); checks == 1 && courses == 1 {
			if got := len(sess.Snapshot().Courses); got != 1 {
				t.Fatalf("courses in store = %d, want 1", got)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("initial check did not run")
}
