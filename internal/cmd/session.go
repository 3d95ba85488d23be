package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// errNotSignedIn is returned by commands that need a session when none is held.
var errNotSignedIn = errors.New("not signed in; run \"aula login\" or \"aula session import\"")

func newWhoamiCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			snap := env.Session.CheckSession(cmd.Context())
			if !snap.Authenticated() {
				if snap.LastError != nil {
					return fmt.Errorf("%w: %v", errNotSignedIn, snap.LastError)
				}
				return errNotSignedIn
			}
			if o.jsonOut {
				return printJSON(cmd.OutOrStdout(), snap.User)
			}

			u := snap.User
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Name:     %s\n", u.Name)
			fmt.Fprintf(w, "Email:    %s\n", u.Email)
			fmt.Fprintf(w, "Role:     %s\n", u.RoleName)
			fmt.Fprintf(w, "Premium:  %s\n", yesNo(u.HasPremiumAccess))
			if exp, ok := env.Cookies.AccessExpiry(); ok {
				fmt.Fprintf(w, "Expires:  %s (%s)\n", exp.Local().Format(time.DateTime), time.Until(exp).Round(time.Second))
			}
			return nil
		},
	}
}

func newLoginCmd(o *rootOptions) *cobra.Command {
	var noBrowser bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google in the browser",
		Long: `Opens the platform's Google sign-in page in the system browser.

The backend sets the session cookies in the browser, not in this terminal.
After signing in, copy the access_token and refresh_token cookies and run:

  aula session import --access <token> --refresh <token>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			w := cmd.OutOrStdout()
			url := env.Resolver.LoginURL()
			if noBrowser {
				fmt.Fprintf(w, "Open this URL to sign in:\n  %s\n", url)
				return nil
			}
			if err := env.Session.Login(); err != nil {
				fmt.Fprintf(w, "Could not open a browser (%v). Open this URL to sign in:\n  %s\n", err, url)
				return nil
			}
			fmt.Fprintf(w, "Opened %s\n", url)
			fmt.Fprintln(w, "When you are signed in, import the cookies with: aula session import --access <token> --refresh <token>")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the sign-in URL instead of opening it")
	return cmd
}

func newLogoutCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the backend and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			env.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newSessionCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or import the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSessionImportCmd(o), newSessionShowCmd(o))
	return cmd
}

func newSessionImportCmd(o *rootOptions) *cobra.Command {
	var access, refresh string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store session cookies copied from the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			access = strings.TrimSpace(access)
			refresh = strings.TrimSpace(refresh)
			if access == "" && refresh == "" {
				return errors.New("pass --access and/or --refresh")
			}
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := env.Cookies.Import(access, refresh); err != nil {
				return fmt.Errorf("import session: %w", err)
			}
			snap := env.Session.CheckSession(cmd.Context())
			if !snap.Authenticated() {
				if snap.LastError != nil {
					return fmt.Errorf("cookies saved but the backend rejected them: %v", snap.LastError)
				}
				return errors.New("cookies saved but the backend rejected them")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", snap.User.Name, snap.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&access, "access", "", "value of the access_token cookie")
	cmd.Flags().StringVar(&refresh, "refresh", "", "value of the refresh_token cookie")
	return cmd
}

func newSessionShowCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show which credentials are stored, without contacting the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := o.env(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "File:     %s\n", env.Config.SessionPath)
			names := env.Cookies.Names()
			if len(names) == 0 {
				fmt.Fprintln(w, "Cookies:  none")
				return nil
			}
			fmt.Fprintf(w, "Cookies:  %s\n", strings.Join(names, ", "))
			if exp, ok := env.Cookies.AccessExpiry(); ok {
				fmt.Fprintf(w, "Access:   expires %s\n", exp.Local().Format(time.DateTime))
			}
			fmt.Fprintf(w, "Refresh:  %s\n", yesNo(env.Cookies.HasRefreshCredential()))
			return nil
		},
	}
}
