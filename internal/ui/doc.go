// Package ui is the Bubble Tea terminal interface for aula.
//
// The root Model switches between three views:
//
//   - Main: the home screen while signed out, the dashboard (profile and
//     enrolled courses) once a session is established
//   - Upload: a small form that reads a local file, checks it against the
//     general upload policy and starts a background upload.Task
//   - Logs: the tail of the JSON log file, re-read every tick
//
// The model never mutates session state directly. It reads snapshots from a
// Session on every tick and issues commands (refresh, login, logout) that run
// off the update loop. Upload progress arrives as one uploadEventMsg per task
// event; the wait command is re-issued until the task's event channel closes.
//
// Themes and the last upload folder are stored through the prefs package.
package ui
