// Package cmd holds the cobra command tree for the aula binary.
//
// Every command builds its own app.Env, so configuration, the cookie-backed
// session and logging are wired the same way as in the TUI. Console logs go
// to stderr; stdout carries only command output (tables, or JSON with --json).
package cmd
