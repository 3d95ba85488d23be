// Package session drives the login lifecycle on top of the api client.
//
// A single Manager is created by the composition root and handed to the UI
// and commands. It owns a state.Store and is the only writer to it.
//
// # Checking a Session
//
// CheckSession waits a short delay, asks the backend for the current user
// and, only when a refresh cookie is present, performs exactly one refresh
// followed by one retry. The result is always a snapshot, never an error:
//
//	CurrentUser ok                           → Authenticated
//	CurrentUser fails, no refresh cookie     → Anonymous
//	CurrentUser fails, refresh + retry ok    → Authenticated
//	anything else                            → Anonymous
//
// # Retrying on 401
//
// Do is the one place where a 401 triggers a refresh. Every authenticated
// operation that should survive an expired access cookie, uploads included,
// runs through it. There is never more than one retry.
package session
