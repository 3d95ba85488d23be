// Package logtail reads the end of aula's own log file for the TUI log view.
//
// The TUI owns the terminal, so while it runs every component logs JSON
// lines (zerolog) to the file named by log_path. Read pulls the last N lines
// back out and parses them into Entry values.
//
// # Reading
//
// Lines are collected with a ring buffer of size N in a single pass, so the
// cost is O(N) memory no matter how large the file has grown:
//
//	entries, err := logtail.Read(cfg.LogPath, 400)
//
// A missing file yields no entries and no error; the log may simply not
// exist before the first run.
//
// # Parsing
//
// The well-known zerolog keys (time, level, component, message) become
// struct fields. Every other key lands in Fields as text. Lines that are not
// JSON (a stray panic trace, say) are kept with the whole line as Message.
package logtail
