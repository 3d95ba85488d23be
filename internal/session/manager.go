package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/state"
)

// API is the part of the backend client the manager drives.
type API interface {
	CurrentUser(ctx context.Context) (*api.User, error)
	RefreshSession(ctx context.Context) error
	Logout(ctx context.Context) error
	MyCourses(ctx context.Context) ([]api.Course, error)
}

var _ API = (*api.Client)(nil)

// Credentials reports what the local cookie store holds.
type Credentials interface {
	HasRefreshCredential() bool
}

// LocalState is wiped on logout.
type LocalState interface {
	Clear() error
}

// HomeRoute is where logout sends the user.
const HomeRoute = "/"

// Options configures a Manager.
type Options struct {
	Store      *state.Store
	Navigator  Navigator
	Local      LocalState
	LoginURL   string
	CheckDelay time.Duration
	// Debug enables auth-flow tracing at debug level.
	Debug  bool
	Logger zerolog.Logger
}

// Manager owns the session lifecycle. CheckSession, Logout, RefreshUser and
// RefreshCourses take a single-writer lock so they never interleave; Do is
// lock-free and may run alongside them.
type Manager struct {
	client   API
	creds    Credentials
	store    *state.Store
	nav      Navigator
	local    LocalState
	loginURL string
	delay    time.Duration
	debug    bool
	log      zerolog.Logger

	writer  *semaphore.Weighted
	checks  singleflight.Group
	refresh singleflight.Group
}

// NewManager wires a Manager. A nil Store or Navigator is replaced with a
// fresh store and a no-op navigator.
func NewManager(client API, creds Credentials, opts Options) *Manager {
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	nav := opts.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) error { return nil })
	}
	return &Manager{
		client:   client,
		creds:    creds,
		store:    store,
		nav:      nav,
		local:    opts.Local,
		loginURL: opts.LoginURL,
		delay:    opts.CheckDelay,
		debug:    opts.Debug,
		log:      opts.Logger.With().Str("component", "session").Logger(),
		writer:   semaphore.NewWeighted(1),
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() state.Snapshot {
	return m.store.Snapshot()
}

func (m *Manager) IsAdmin() bool {
	return m.store.Snapshot().IsAdmin()
}

func (m *Manager) IsAlumno() bool {
	return m.store.Snapshot().IsAlumno()
}

// trace returns a debug event only when auth tracing is on.
func (m *Manager) trace() *zerolog.Event {
	if !m.debug {
		return nil
	}
	return m.log.Debug()
}

// CheckSession establishes whether the stored cookies still identify a user.
// It waits CheckDelay first. On failure it tries exactly one refresh and one
// retry, and only when a refresh cookie is present. Concurrent calls share a
// single check. It never fails; the outcome is in the returned snapshot.
func (m *Manager) CheckSession(ctx context.Context) state.Snapshot {
	v, _, _ := m.checks.Do("check", func() (any, error) {
		return m.checkSession(ctx), nil
	})
	return v.(state.Snapshot)
}

func (m *Manager) checkSession(ctx context.Context) state.Snapshot {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return m.store.Snapshot()
		case <-timer.C:
		}
	}
	if err := m.writer.Acquire(ctx, 1); err != nil {
		return m.store.Snapshot()
	}
	defer m.writer.Release(1)

	m.store.Begin()
	m.trace().Msg("checking session")

	user, err := m.client.CurrentUser(ctx)
	if err == nil {
		m.store.SetUser(user)
		m.trace().Int("user_id", user.ID).Str("role", user.RoleName).Msg("session valid")
		return m.store.Snapshot()
	}
	m.trace().Err(err).Msg("current user failed")

	if m.creds == nil || !m.creds.HasRefreshCredential() {
		m.trace().Msg("no refresh credential, staying anonymous")
		m.store.SetAnonymous(anonymousCause(err))
		return m.store.Snapshot()
	}

	if err := m.client.RefreshSession(ctx); err != nil {
		m.trace().Err(err).Msg("refresh failed")
		m.store.SetAnonymous(anonymousCause(err))
		return m.store.Snapshot()
	}
	user, err = m.client.CurrentUser(ctx)
	if err != nil {
		m.trace().Err(err).Msg("current user failed after refresh")
		m.store.SetAnonymous(anonymousCause(err))
		return m.store.Snapshot()
	}
	m.store.SetUser(user)
	m.trace().Int("user_id", user.ID).Msg("session restored after refresh")
	return m.store.Snapshot()
}

// anonymousCause drops plain 401s: being logged out is not an error worth
// showing.
func anonymousCause(err error) error {
	if api.IsUnauthorized(err) {
		return nil
	}
	return err
}

// Login sends the user to the OAuth entry point. Session state is untouched;
// it is picked up by the next CheckSession.
func (m *Manager) Login() error {
	m.trace().Str("url", m.loginURL).Msg("starting login")
	return m.nav.Navigate(m.loginURL)
}

// Logout tells the backend to end the session, then clears local state and
// navigates home whatever the backend said.
func (m *Manager) Logout(ctx context.Context) {
	// local cleanup must happen even when ctx is already done
	_ = m.writer.Acquire(context.WithoutCancel(ctx), 1)
	defer m.writer.Release(1)

	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn().Err(err).Msg("backend logout failed")
	}
	if m.local != nil {
		if err := m.local.Clear(); err != nil {
			m.log.Warn().Err(err).Msg("clear local session failed")
		}
	}
	m.store.SetAnonymous(nil)
	m.trace().Msg("logged out")
	if err := m.nav.Navigate(HomeRoute); err != nil {
		m.log.Warn().Err(err).Msg("navigate home failed")
	}
}

// RefreshUser re-fetches the current user. The store shows Checking while the
// request runs and keeps the previous user. On failure the user is cleared;
// no error is reported.
func (m *Manager) RefreshUser(ctx context.Context) {
	if err := m.writer.Acquire(ctx, 1); err != nil {
		return
	}
	defer m.writer.Release(1)

	m.store.Begin()
	var user *api.User
	err := m.Do(ctx, func(ctx context.Context) error {
		u, err := m.client.CurrentUser(ctx)
		user = u
		return err
	})
	if err != nil {
		m.trace().Err(err).Msg("refresh user failed")
		m.store.SetAnonymous(anonymousCause(err))
		return
	}
	m.store.SetUser(user)
}

// RefreshCourses reloads the signed-in user's courses into the store.
func (m *Manager) RefreshCourses(ctx context.Context) error {
	if !m.store.Snapshot().Authenticated() {
		return nil
	}
	if err := m.writer.Acquire(ctx, 1); err != nil {
		return err
	}
	defer m.writer.Release(1)

	var courses []api.Course
	err := m.Do(ctx, func(ctx context.Context) error {
		c, err := m.client.MyCourses(ctx)
		courses = c
		return err
	})
	m.store.SetCourses(courses, err)
	return err
}

// Do runs op and, if it fails with 401, refreshes the session once and runs
// op one more time. A failed refresh surfaces as an auth error; a second 401
// is returned as-is. Concurrent refreshes are shared.
func (m *Manager) Do(ctx context.Context, op func(context.Context) error) error {
	err := op(ctx)
	if !api.IsUnauthorized(err) {
		return err
	}
	m.trace().Msg("unauthorized, refreshing session")
	if rerr := m.refreshOnce(ctx); rerr != nil {
		return &api.Error{Kind: api.KindAuth, Status: 401, Message: "Session expired, please log in again", Err: rerr}
	}
	return op(ctx)
}

func (m *Manager) refreshOnce(ctx context.Context) error {
	_, err, _ := m.refresh.Do("refresh", func() (any, error) {
		return nil, m.client.RefreshSession(ctx)
	})
	return err
}
