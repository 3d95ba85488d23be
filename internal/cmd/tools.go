package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tecnojuy/aula/internal/config"
	"github.com/tecnojuy/aula/internal/devproxy"
	"github.com/tecnojuy/aula/internal/logging"
)

func newEndpointsCmd(o *rootOptions) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "Print the backend endpoint table",
		Long: `Prints every backend endpoint the client knows, with the URL it resolves to
under the current configuration (production base URL, or the dev proxy prefix).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Debug: o.verbose, Pretty: true, Output: cmd.ErrOrStderr()})
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer func() { _ = closer.Close() }()
			resolver, err := config.NewResolver(cfg, log)
			if err != nil {
				return err
			}

			var shown []config.Endpoint
			var rows [][]string
			for _, e := range config.Endpoints() {
				if filter != "" && !strings.HasPrefix(e.Key, filter) {
					continue
				}
				shown = append(shown, e)
				rows = append(rows, []string{e.Key, e.Method, e.Pattern, resolver.Absolute(e.Pattern)})
			}
			return o.output(cmd.OutOrStdout(), shown, []string{"Key", "Method", "Path", "URL"}, rows)
		},
	}
	cmd.Flags().StringVar(&filter, "prefix", "", "only keys starting with this prefix, e.g. courses.")
	return cmd
}

func newDevProxyCmd(o *rootOptions) *cobra.Command {
	var listen, backend string
	cmd := &cobra.Command{
		Use:   "devproxy",
		Short: "Run the local development proxy",
		Long: `Serves the dev proxy prefix (default /api) on dev_listen and forwards it to
dev_backend with the prefix stripped, so cookies set by a local backend land on
the same origin the client uses. Also serves /healthz and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if listen != "" {
				cfg.DevListen = listen
			}
			if backend != "" {
				cfg.DevBackend = backend
			}
			log, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Debug: o.verbose || cfg.Debug, Pretty: true, Output: cmd.ErrOrStderr()})
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer func() { _ = closer.Close() }()

			srv, err := devproxy.New(cfg, log, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Proxying http://%s%s -> %s (ctrl+c to stop)\n", srv.Addr(), cfg.DevProxyPrefix, cfg.DevBackend)
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from dev_listen)")
	cmd.Flags().StringVar(&backend, "backend", "", "backend URL (default from dev_backend)")
	return cmd
}
