package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/state"
)

var errUnauthorized = &api.Error{Kind: api.KindAuth, Status: 401, Message: "Not authenticated"}

type fakeAPI struct {
	mu          sync.Mutex
	userResults []error
	refreshErr  error
	logoutErr   error
	coursesErr  error
	user        *api.User
	block       chan struct{}

	userCalls    atomic.Int32
	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*api.User, error) {
	n := int(f.userCalls.Add(1))
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if n <= len(f.userResults) {
		err = f.userResults[n-1]
	}
	if err != nil {
		return nil, err
	}
	u := *f.user
	return &u, nil
}

func (f *fakeAPI) RefreshSession(context.Context) error {
	f.refreshCalls.Add(1)
	return f.refreshErr
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logoutCalls.Add(1)
	return f.logoutErr
}

func (f *fakeAPI) MyCourses(context.Context) ([]api.Course, error) {
	if f.coursesErr != nil {
		return nil, f.coursesErr
	}
	return []api.Course{{ID: 1, Title: "Go"}}, nil
}

type fakeCreds bool

func (c fakeCreds) HasRefreshCredential() bool { return bool(c) }

type fakeLocal struct{ cleared atomic.Int32 }

func (l *fakeLocal) Clear() error {
	l.cleared.Add(1)
	return nil
}

func newManager(client API, creds Credentials, nav Navigator, local LocalState) *Manager {
	return NewManager(client, creds, Options{
		Navigator: nav,
		Local:     local,
		LoginURL:  "https://api.example.test/auth/google/login",
		Debug:     true,
		Logger:    zerolog.Nop(),
	})
}

func TestCheckSession_ValidSession(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1, RoleName: api.RoleAlumno}}
	m := newManager(f, fakeCreds(true), nil, nil)

	snap := m.CheckSession(context.Background())
	assert.Equal(t, state.PhaseAuthenticated, snap.Phase)
	assert.False(t, snap.Loading)
	assert.True(t, m.IsAlumno())
	assert.False(t, m.IsAdmin())
	assert.Equal(t, int32(1), f.userCalls.Load())
	assert.Equal(t, int32(0), f.refreshCalls.Load())
}

func TestCheckSession_NoRefreshCredential(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1}, userResults: []error{errUnauthorized}}
	m := newManager(f, fakeCreds(false), nil, nil)

	snap := m.CheckSession(context.Background())
	assert.Equal(t, state.PhaseAnonymous, snap.Phase)
	assert.Nil(t, snap.User)
	assert.Nil(t, snap.LastError, "a plain 401 is not an error to show")
	assert.Equal(t, int32(1), f.userCalls.Load())
	assert.Equal(t, int32(0), f.refreshCalls.Load())
}

func TestCheckSession_RefreshThenRetry(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 2, RoleName: api.RoleAdmin}, userResults: []error{errUnauthorized, nil}}
	m := newManager(f, fakeCreds(true), nil, nil)

	snap := m.CheckSession(context.Background())
	assert.Equal(t, state.PhaseAuthenticated, snap.Phase)
	assert.True(t, snap.IsAdmin())
	assert.Equal(t, int32(2), f.userCalls.Load())
	assert.Equal(t, int32(1), f.refreshCalls.Load())
}

func TestCheckSession_AtMostOneRefreshAndRetry(t *testing.T) {
	tests := []struct {
		name        string
		userResults []error
		refreshErr  error
		wantUser    int32
	}{
		{"refresh fails", []error{errUnauthorized}, errUnauthorized, 1},
		{"retry fails", []error{errUnauthorized, errUnauthorized, nil}, nil, 2},
		{"network then 401", []error{&api.Error{Kind: api.KindNetwork, Message: "Network error"}, errUnauthorized}, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAPI{user: &api.User{ID: 1}, userResults: tt.userResults, refreshErr: tt.refreshErr}
			m := newManager(f, fakeCreds(true), nil, nil)

			snap := m.CheckSession(context.Background())
			assert.Equal(t, state.PhaseAnonymous, snap.Phase)
			assert.Equal(t, tt.wantUser, f.userCalls.Load())
			assert.Equal(t, int32(1), f.refreshCalls.Load())
		})
	}
}

func TestCheckSession_NetworkErrorIsRecorded(t *testing.T) {
	netErr := &api.Error{Kind: api.KindNetwork, Message: "Network error"}
	f := &fakeAPI{user: &api.User{ID: 1}, userResults: []error{netErr}}
	m := newManager(f, fakeCreds(false), nil, nil)

	snap := m.CheckSession(context.Background())
	assert.Equal(t, state.PhaseAnonymous, snap.Phase)
	assert.True(t, errors.Is(snap.LastError, api.ErrNetwork))
}

func TestCheckSession_DelayHonoursContext(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1}}
	m := NewManager(f, fakeCreds(true), Options{CheckDelay: time.Hour, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap := m.CheckSession(ctx)
	assert.Equal(t, state.PhaseUnchecked, snap.Phase)
	assert.Equal(t, int32(0), f.userCalls.Load())
}

func TestCheckSession_ConcurrentCallsCoalesce(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1}, block: make(chan struct{})}
	m := newManager(f, fakeCreds(true), nil, nil)

	var wg sync.WaitGroup
	results := make([]state.Snapshot, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.CheckSession(context.Background())
		}(i)
	}
	require.Eventually(t, func() bool { return f.userCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.block)
	wg.Wait()

	assert.Equal(t, int32(1), f.userCalls.Load())
	for _, snap := range results {
		assert.Equal(t, state.PhaseAuthenticated, snap.Phase)
	}
}

func TestLogin_NavigatesWithoutStateChange(t *testing.T) {
	nav := &RecordingNavigator{}
	m := newManager(&fakeAPI{}, fakeCreds(false), nav, nil)

	require.NoError(t, m.Login())
	assert.Equal(t, []string{"https://api.example.test/auth/google/login"}, nav.Targets())
	assert.Equal(t, state.PhaseUnchecked, m.Snapshot().Phase)
}

func TestLogout_ClearsEvenWhenBackendFails(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1}, logoutErr: errors.New("backend down")}
	nav := &RecordingNavigator{}
	local := &fakeLocal{}
	m := newManager(f, fakeCreds(true), nav, local)
	m.CheckSession(context.Background())
	require.True(t, m.Snapshot().Authenticated())

	m.Logout(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, state.PhaseAnonymous, snap.Phase)
	assert.Nil(t, snap.User)
	assert.Equal(t, int32(1), local.cleared.Load())
	assert.Equal(t, int32(1), f.logoutCalls.Load())
	assert.Equal(t, []string{HomeRoute}, nav.Targets())
}

func TestLogout_WaitsForInFlightCheck(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1}, block: make(chan struct{})}
	local := &fakeLocal{}
	m := newManager(f, fakeCreds(true), nil, local)

	checkDone := make(chan struct{})
	go func() {
		m.CheckSession(context.Background())
		close(checkDone)
	}()
	require.Eventually(t, func() bool { return f.userCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	logoutDone := make(chan struct{})
	go func() {
		m.Logout(context.Background())
		close(logoutDone)
	}()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), local.cleared.Load(), "logout must not interleave with a running check")

	close(f.block)
	<-checkDone
	<-logoutDone
	assert.Equal(t, int32(1), local.cleared.Load())
	assert.Equal(t, state.PhaseAnonymous, m.Snapshot().Phase)
}

func TestRefreshUser(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1, Name: "Ana"}}
	m := newManager(f, fakeCreds(true), nil, nil)

	m.RefreshUser(context.Background())
	assert.Equal(t, "Ana", m.Snapshot().User.Name)

	f.userResults = []error{nil, errors.New("boom")}
	m.RefreshUser(context.Background())
	assert.Nil(t, m.Snapshot().User, "failed refresh clears the user")
	assert.Equal(t, int32(0), f.refreshCalls.Load(), "non-401 failures do not refresh")
}

func TestRefreshUser_ShowsCheckingAndKeepsUser(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1, Name: "Ana"}}
	m := newManager(f, fakeCreds(true), nil, nil)
	require.True(t, m.CheckSession(context.Background()).Authenticated())

	f.block = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.RefreshUser(context.Background())
	}()
	require.Eventually(t, func() bool { return f.userCalls.Load() == 2 }, time.Second, time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, state.PhaseChecking, snap.Phase)
	assert.True(t, snap.Loading)
	require.NotNil(t, snap.User, "the previous user stays visible while checking")
	assert.Equal(t, "Ana", snap.User.Name)

	close(f.block)
	<-done
	assert.Equal(t, state.PhaseAuthenticated, m.Snapshot().Phase)
	assert.False(t, m.Snapshot().Loading)
}

func TestRefreshUser_RetriesOnceOn401(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1}, userResults: []error{errUnauthorized, nil}}
	m := newManager(f, fakeCreds(true), nil, nil)

	m.RefreshUser(context.Background())
	assert.True(t, m.Snapshot().Authenticated())
	assert.Equal(t, int32(1), f.refreshCalls.Load())
}

func TestRefreshCourses(t *testing.T) {
	f := &fakeAPI{user: &api.User{ID: 1}}
	m := newManager(f, fakeCreds(true), nil, nil)

	require.NoError(t, m.RefreshCourses(context.Background()))
	assert.Empty(t, m.Snapshot().Courses, "anonymous users have no courses to load")

	m.CheckSession(context.Background())
	require.NoError(t, m.RefreshCourses(context.Background()))
	assert.Len(t, m.Snapshot().Courses, 1)
}

func TestDo(t *testing.T) {
	t.Run("passes through success and non-auth errors", func(t *testing.T) {
		f := &fakeAPI{}
		m := newManager(f, fakeCreds(true), nil, nil)
		boom := errors.New("boom")
		calls := 0
		err := m.Do(context.Background(), func(context.Context) error { calls++; return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
		assert.Equal(t, int32(0), f.refreshCalls.Load())
	})

	t.Run("refreshes and retries once", func(t *testing.T) {
		f := &fakeAPI{}
		m := newManager(f, fakeCreds(true), nil, nil)
		calls := 0
		err := m.Do(context.Background(), func(context.Context) error {
			calls++
			if calls == 1 {
				return errUnauthorized
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, int32(1), f.refreshCalls.Load())
	})

	t.Run("second 401 is returned without looping", func(t *testing.T) {
		f := &fakeAPI{}
		m := newManager(f, fakeCreds(true), nil, nil)
		calls := 0
		err := m.Do(context.Background(), func(context.Context) error { calls++; return errUnauthorized })
		assert.True(t, api.IsUnauthorized(err))
		assert.Equal(t, 2, calls)
		assert.Equal(t, int32(1), f.refreshCalls.Load())
	})

	t.Run("failed refresh is an auth error", func(t *testing.T) {
		f := &fakeAPI{refreshErr: errors.New("refresh rejected")}
		m := newManager(f, fakeCreds(true), nil, nil)
		calls := 0
		err := m.Do(context.Background(), func(context.Context) error { calls++; return errUnauthorized })
		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, api.KindAuth, apiErr.Kind)
		assert.Contains(t, apiErr.Error(), "Session expired")
		assert.Equal(t, 1, calls)
	})
}
