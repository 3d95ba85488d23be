package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/config"
	"github.com/tecnojuy/aula/internal/logtail"
	"github.com/tecnojuy/aula/internal/prefs"
	"github.com/tecnojuy/aula/internal/state"
	"github.com/tecnojuy/aula/internal/upload"
)

// View represents the current active view.
type View int

const (
	// ViewMain is the home screen when signed out and the dashboard otherwise.
	ViewMain View = iota
	ViewUpload
	ViewLogs
)

// Session is the part of the session manager the UI drives.
type Session interface {
	Snapshot() state.Snapshot
	CheckSession(ctx context.Context) state.Snapshot
	RefreshUser(ctx context.Context)
	RefreshCourses(ctx context.Context) error
	Login() error
	Logout(ctx context.Context)
}

// Uploader starts background uploads.
type Uploader interface {
	Start(ctx context.Context, file upload.File, folder string) *upload.Task
}

var _ Uploader = (*upload.Uploader)(nil)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Session      Session
	Uploader     Uploader
	Config       config.Config
	LogPath      string
	ThemeName    string
	UploadFolder string
	PrefsPath    string
	Logger       zerolog.Logger
	// Tick is how often the session snapshot is re-read. Defaults to 1s.
	Tick time.Duration
}

const logTailLines = 400

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	session   Session
	uploader  Uploader
	config    config.Config
	logPath   string
	prefsPath string
	tick      time.Duration
	log       zerolog.Logger

	theme       Theme
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	snapshot    state.Snapshot
	lastUpdated time.Time
	refreshing  bool
	notice      string
	noticeErr   bool

	upload uploadState
	logs   logsState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	folder := opts.UploadFolder
	if folder == "" {
		folder = upload.DefaultFolder
	}

	m := Model{
		ctx:       ctx,
		session:   opts.Session,
		uploader:  opts.Uploader,
		config:    opts.Config,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		tick:      tick,
		log:       opts.Logger.With().Str("component", "ui").Logger(),
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.upload = newUploadState(folder, m.theme)
	m.logs = logsState{viewport: viewport.New(80, 20), follow: true}
	if m.session != nil {
		m.snapshot = m.session.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		m.spinner.Tick,
	}
	if m.session != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.session))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.session != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.session))
		}
		if m.currentView == ViewLogs {
			cmds = append(cmds, loadLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if !m.snapshot.LastUpdated.IsZero() {
			m.lastUpdated = m.snapshot.LastUpdated
		}
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		m.snapshot = state.Snapshot(msg)
		if !m.snapshot.LastUpdated.IsZero() {
			m.lastUpdated = m.snapshot.LastUpdated
		}
		if !m.snapshot.Authenticated() && m.currentView == ViewUpload && !m.upload.running() {
			m.currentView = ViewMain
		}
		return m, nil

	case loginMsg:
		if msg.err != nil {
			m.setNotice("Could not open the browser: "+msg.err.Error(), true)
			return m, nil
		}
		m.setNotice("Finish signing in from your browser, then press r.", false)
		return m, nil

	case logoutMsg:
		m.setNotice("Signed out.", false)
		m.currentView = ViewMain
		return m, fetchSnapshotCmd(m.session)

	case fileReadMsg:
		return m.handleFileRead(msg)

	case uploadEventMsg:
		return m.handleUploadEvent(msg)

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) resize() {
	bodyHeight := m.height - 4
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	m.help.Width = m.width
	m.logs.viewport.Width = m.width
	m.logs.viewport.Height = bodyHeight
	m.logs.render(m.theme.Styles())
	m.upload.resize(m.width)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.cancelUpload()
		return m, tea.Quit
	}

	// The upload form owns the keyboard while it is editable.
	if m.currentView == ViewUpload {
		if handled, next, cmd := m.handleUploadKey(msg); handled {
			return next, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelUpload()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.upload.applyTheme(m.theme)
		m.logs.render(m.theme.Styles())
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing || m.session == nil {
			return m, nil
		}
		m.refreshing = true
		return m, refreshCmd(m.ctx, m.session)

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ViewMain):
		m.currentView = ViewMain
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, loadLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.ViewUpload):
		if !m.snapshot.Authenticated() {
			m.setNotice("Sign in before uploading files.", true)
			return m, nil
		}
		m.currentView = ViewUpload
		return m, m.upload.focus()

	case key.Matches(msg, m.keys.Login):
		if m.snapshot.Authenticated() || m.session == nil {
			return m, nil
		}
		return m, loginCmd(m.session)

	case key.Matches(msg, m.keys.Logout):
		if !m.snapshot.Authenticated() || m.session == nil {
			return m, nil
		}
		m.cancelUpload()
		return m, logoutCmd(m.ctx, m.session)
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m *Model) cancelUpload() {
	if m.upload.task != nil && !m.upload.task.Status().Done() {
		m.upload.task.Cancel()
	}
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, UploadFolder: m.upload.folderValue()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Msg("save preferences failed")
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg state.Snapshot

type loginMsg struct{ err error }

type logoutMsg struct{}

type fileReadMsg struct {
	file upload.File
	err  error
}

type uploadEventMsg struct {
	taskID string
	event  upload.Event
	closed bool
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(sess Session) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(sess.Snapshot())
	}
}

// refreshCmd re-validates the user when signed in and re-runs the session
// check otherwise.
func refreshCmd(ctx context.Context, sess Session) tea.Cmd {
	return func() tea.Msg {
		if sess.Snapshot().Authenticated() {
			sess.RefreshUser(ctx)
			_ = sess.RefreshCourses(ctx)
			return refreshDoneMsg(sess.Snapshot())
		}
		snap := sess.CheckSession(ctx)
		if snap.Authenticated() {
			_ = sess.RefreshCourses(ctx)
			snap = sess.Snapshot()
		}
		return refreshDoneMsg(snap)
	}
}

func loginCmd(sess Session) tea.Cmd {
	return func() tea.Msg {
		return loginMsg{err: sess.Login()}
	}
}

func logoutCmd(ctx context.Context, sess Session) tea.Cmd {
	return func() tea.Msg {
		sess.Logout(ctx)
		return logoutMsg{}
	}
}

func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := upload.ReadFile(path)
		return fileReadMsg{file: f, err: err}
	}
}

// waitForEventCmd blocks on the next task event; it is re-issued until the
// task's event channel closes.
func waitForEventCmd(task *upload.Task) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-task.Events()
		return uploadEventMsg{taskID: task.ID, event: ev, closed: !ok}
	}
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Read(path, logTailLines)
		return logsMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.Context = ctx
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

var _ tea.Model = Model{}

