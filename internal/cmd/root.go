package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tecnojuy/aula/internal/app"
	"github.com/tecnojuy/aula/internal/session"
)

// rootOptions carries the persistent flags and test hooks shared by every
// subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
	jsonOut    bool

	// navigator replaces the system browser in tests.
	navigator session.Navigator
}

// NewRootCmd builds the aula command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(o *rootOptions) *cobra.Command {
	tui := &tuiOptions{}
	root := &cobra.Command{
		Use:   "aula",
		Short: "Terminal client for the Tecnojuy education platform",
		Long: `aula talks to the Tecnojuy backend from the terminal.

Run without arguments to open the interactive dashboard, or use one of the
commands below for scripting. Sign in once with "aula login" (browser) or
"aula session import" (cookies copied from the browser); the session is kept
in ~/.config/aula/session.toml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), o, tui)
		},
	}
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default is ~/.config/aula/config.toml)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging and auth tracing")
	root.PersistentFlags().BoolVar(&o.jsonOut, "json", false, "print raw JSON instead of tables")
	tui.bind(root)

	root.AddCommand(
		newTUICmd(o),
		newWhoamiCmd(o),
		newLoginCmd(o),
		newLogoutCmd(o),
		newSessionCmd(o),
		newUploadCmd(o),
		newCoursesCmd(o),
		newBlogCmd(o),
		newUsersCmd(o),
		newEndpointsCmd(o),
		newDevProxyCmd(o),
	)
	return root
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

type tuiOptions struct {
	prefsPath string
	poll      time.Duration
}

func (t *tuiOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.prefsPath, "prefs", "", "preferences file (default is ~/.config/aula/prefs.toml)")
	cmd.Flags().DurationVar(&t.poll, "poll", 0, "session re-check interval (default 1m)")
}

func newTUICmd(o *rootOptions) *cobra.Command {
	t := &tuiOptions{}
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), o, t)
		},
	}
	t.bind(cmd)
	return cmd
}

func runTUI(ctx context.Context, o *rootOptions, t *tuiOptions) error {
	return app.Run(ctx, app.Options{
		ConfigPath: o.configPath,
		PrefsPath:  t.prefsPath,
		PollEvery:  t.poll,
		Verbose:    o.verbose,
	})
}

// env builds the client stack for one command. Logs go to the command's
// stderr so stdout stays clean for output.
func (o *rootOptions) env(cmd *cobra.Command) (*app.Env, error) {
	return app.NewEnv(app.EnvOptions{
		ConfigPath: o.configPath,
		Verbose:    o.verbose,
		Output:     cmd.ErrOrStderr(),
		Navigator:  o.navigator,
	})
}
