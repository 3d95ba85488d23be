package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/config"
	"github.com/tecnojuy/aula/internal/cookiestore"
	"github.com/tecnojuy/aula/internal/logging"
	"github.com/tecnojuy/aula/internal/session"
	"github.com/tecnojuy/aula/internal/state"
	"github.com/tecnojuy/aula/internal/upload"
)

// EnvOptions control how NewEnv builds the object graph.
type EnvOptions struct {
	ConfigPath string
	// LogToFile sends JSON logs to the configured log_path. The TUI needs
	// this because it owns the terminal.
	LogToFile bool
	// Verbose forces debug logging and auth tracing.
	Verbose bool
	// Output receives console logs when LogToFile is false. Defaults to stderr.
	Output io.Writer
	// Navigator overrides the system browser.
	Navigator session.Navigator
}

// Env is everything a command or the TUI needs, built once.
type Env struct {
	Config   config.Config
	Log      zerolog.Logger
	Resolver *config.Resolver
	Cookies  *cookiestore.Store
	Client   *api.Client
	Store    *state.Store
	Session  *session.Manager
	Uploader *upload.Uploader

	closer io.Closer
}

// NewEnv loads configuration and wires the client stack.
func NewEnv(opts EnvOptions) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.Verbose {
		cfg.Debug = true
	}

	logOpts := logging.Options{Level: cfg.LogLevel, Debug: cfg.Debug, Output: opts.Output}
	if opts.LogToFile {
		logOpts.Path = cfg.LogPath
	} else {
		logOpts.Pretty = true
	}
	log, closer, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	env, err := build(cfg, log, opts.Navigator)
	if err != nil {
		return nil, errors.Join(err, closer.Close())
	}
	env.closer = closer
	return env, nil
}

func build(cfg config.Config, log zerolog.Logger, nav session.Navigator) (*Env, error) {
	resolver, err := config.NewResolver(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init resolver: %w", err)
	}
	cookies, err := cookiestore.Open(cfg.SessionPath, resolver.CookieURL())
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	client := api.NewClient(resolver, cookies, log, api.WithTimeout(cfg.RequestTimeout))

	if nav == nil {
		nav = session.NewBrowserNavigator(log)
	}
	store := &state.Store{}
	mgr := session.NewManager(client, cookies, session.Options{
		Store:      store,
		Navigator:  nav,
		Local:      cookies,
		LoginURL:   resolver.LoginURL(),
		CheckDelay: cfg.SessionCheckDelay,
		Debug:      cfg.Debug,
		Logger:     log,
	})

	log.Debug().
		Bool("dev", resolver.Dev()).
		Str("api", resolver.Absolute("/")).
		Str("session_path", cfg.SessionPath).
		Msg("environment ready")

	return &Env{
		Config:   cfg,
		Log:      log,
		Resolver: resolver,
		Cookies:  cookies,
		Client:   client,
		Store:    store,
		Session:  mgr,
		Uploader: upload.NewUploader(client, mgr, cfg.Upload, log),
	}, nil
}

// Close releases the log file, if any.
func (e *Env) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	return e.closer.Close()
}
