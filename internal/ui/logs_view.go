package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tecnojuy/aula/internal/logtail"
)

// logsState holds the log view. follow keeps the view pinned to the newest
// line until the user scrolls up.
type logsState struct {
	viewport viewport.Model
	entries  []logtail.Entry
	err      error
	follow   bool
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logs.entries = msg.entries
	m.logs.err = msg.err
	m.logs.render(m.theme.Styles())
}

func (s *logsState) render(styles Styles) {
	if s.err != nil {
		s.viewport.SetContent(styles.DangerText.Render("Could not read log: " + s.err.Error()))
		return
	}
	if len(s.entries) == 0 {
		s.viewport.SetContent(styles.MutedText.Render("No log entries yet."))
		return
	}
	lines := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		lines = append(lines, formatEntry(styles, e))
	}
	s.viewport.SetContent(strings.Join(lines, "\n"))
	if s.follow {
		s.viewport.GotoBottom()
	}
}

func formatEntry(styles Styles, e logtail.Entry) string {
	if e.Time.IsZero() && e.Level == "" {
		return styles.Text.Render(e.Message)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
		b.WriteString(" ")
	}
	b.WriteString(styles.LevelStyle(e.Level).Render(padRight(strings.ToUpper(e.Level), 5)))
	b.WriteString(" ")
	if e.Component != "" {
		b.WriteString(styles.AccentText.Render("[" + e.Component + "]"))
		b.WriteString(" ")
	}
	b.WriteString(styles.Text.Render(e.Message))
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(k + "=" + e.Fields[k]))
		}
	}
	return b.String()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.logs.viewport
	switch {
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	default:
		return m, nil
	}
	m.logs.follow = vp.AtBottom()
	return m, nil
}

func (m Model) renderLogs() string {
	return m.logs.viewport.View()
}
