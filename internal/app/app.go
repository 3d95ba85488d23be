package app

import (
	"context"
	"time"

	"github.com/tecnojuy/aula/internal/prefs"
	"github.com/tecnojuy/aula/internal/ui"
)

// Options configure the TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/aula/prefs.toml
	PollEvery  time.Duration
	Verbose    bool
}

// Run boots the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := NewEnv(EnvOptions{ConfigPath: opts.ConfigPath, LogToFile: true, Verbose: opts.Verbose})
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	interval := opts.PollEvery
	if interval <= 0 {
		interval = defaultPollInterval
	}
	StartPoller(ctx, env.Session, interval, env.Log)

	env.Log.Info().Bool("dev", env.Resolver.Dev()).Msg("tui started")
	defer env.Log.Info().Msg("tui stopped")

	return ui.Run(ctx, ui.Options{
		Session:      env.Session,
		Uploader:     env.Uploader,
		Config:       env.Config,
		LogPath:      env.Config.LogPath,
		ThemeName:    userPrefs.Theme,
		UploadFolder: userPrefs.UploadFolder,
		PrefsPath:    opts.PrefsPath,
		Logger:       env.Log,
	})
}
