// Package app is aula's composition root.
//
// # Environment
//
// NewEnv builds the object graph every entry point shares:
//
//	config.Load ─> logging.New ─> config.NewResolver
//	                           ─> cookiestore.Open (session.toml)
//	                           ─> api.NewClient (cookie jar = store)
//	                           ─> session.NewManager (single writer of state.Store)
//	                           ─> upload.NewUploader (401 retry via the manager)
//
// One-shot commands log to stderr; the TUI logs JSON to log_path so the
// Logs view can tail it.
//
// # Polling
//
// Run starts a background poller before handing the terminal to the UI. It
// checks the session once, loads the user's courses, then on every interval
// re-fetches the user and courses while signed in. Failures double the wait
// up to five minutes. While anonymous after a logout it does nothing; the
// user signs in again from the Home view.
package app
