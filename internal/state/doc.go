// Package state holds the session snapshot shared by the session manager,
// the background poller and the UI.
//
// # Lifecycle
//
//	Unchecked ──Begin──→ Checking ──SetUser──────→ Authenticated
//	                        │                           │
//	                        └──SetAnonymous──→ Anonymous ←┘ (logout, failed refresh)
//
// Only the session manager writes to the Store. Readers call Snapshot, which
// copies the user and course list so callers can hold on to it without
// locking.
//
// # Derived Roles
//
// IsAdmin and IsAlumno are methods on Snapshot rather than stored flags, so
// they always agree with the current user's role_name.
package state
