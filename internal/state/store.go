package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/tecnojuy/aula/internal/api"
)

// Phase is where the session is in its lifecycle.
type Phase int

const (
	PhaseUnchecked Phase = iota
	PhaseChecking
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseUnchecked:
		return "unchecked"
	case PhaseChecking:
		return "checking"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	Phase       Phase
	User        *api.User
	Loading     bool
	LastError   error
	LastUpdated time.Time

	Courses             []api.Course
	CoursesError        error
	ConsecutiveFailures int
}

// Authenticated reports whether a user is present.
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// IsAdmin is derived from the user's role on every call.
func (s Snapshot) IsAdmin() bool {
	return s.User != nil && s.User.RoleName == api.RoleAdmin
}

// IsAlumno is derived from the user's role on every call.
func (s Snapshot) IsAlumno() bool {
	return s.User != nil && s.User.RoleName == api.RoleAlumno
}

// Store holds the current session. Writes come from the session manager
// only; any goroutine may read.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin marks a session check in flight. The current user is kept until the
// check resolves.
func (s *Store) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseChecking
	s.snapshot.Loading = true
}

// SetUser records a confirmed identity.
func (s *Store) SetUser(u *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseAuthenticated
	s.snapshot.User = cloneUser(u)
	s.snapshot.Loading = false
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// SetAnonymous drops the user. err, when non-nil, is kept for display.
func (s *Store) SetAnonymous(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Phase = PhaseAnonymous
	s.snapshot.User = nil
	s.snapshot.Courses = nil
	s.snapshot.CoursesError = nil
	s.snapshot.Loading = false
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.ConsecutiveFailures++
	}
}

// SetCourses replaces the enrolled course list. When err is non-nil the
// previous list is kept and the error recorded.
func (s *Store) SetCourses(courses []api.Course, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.snapshot.CoursesError = err
		return
	}
	s.snapshot.Courses = cloneCourses(courses)
	s.snapshot.CoursesError = nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.User = cloneUser(s.snapshot.User)
	snap.Courses = cloneCourses(s.snapshot.Courses)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneUser(u *api.User) *api.User {
	if u == nil {
		return nil
	}
	dup := *u
	return &dup
}

func cloneCourses(items []api.Course) []api.Course {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Course, len(items))
	copy(dup, items)
	return dup
}
