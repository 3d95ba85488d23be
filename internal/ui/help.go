package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpTitles name the groups returned by keyMap.FullHelp, in order.
var helpTitles = []string{"Views", "Session", "Upload", "Logs", "General"}

// renderHelp draws the shortcut overlay from the live key bindings.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(10)

	groups := m.keys.FullHelp()
	blocks := make([]string, 0, len(groups))
	for i, group := range groups {
		title := "More"
		if i < len(helpTitles) {
			title = helpTitles[i]
		}
		blocks = append(blocks, helpBlock(title, group, styles, keyStyle))
	}

	// Two columns fit an 80x24 terminal.
	half := (len(blocks) + 1) / 2
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(30).Render(strings.Join(blocks[:half], "\n\n")),
		lipgloss.NewStyle().Width(30).Render(strings.Join(blocks[half:], "\n\n")),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Text.Bold(true).Render("Keyboard Shortcuts"),
		styles.FaintText.Render(strings.Repeat("─", 60)),
		"",
		columns,
		"",
		styles.MutedText.Render("Press any key to close."),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Render(body)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

func helpBlock(title string, bindings []key.Binding, styles Styles, keyStyle lipgloss.Style) string {
	lines := []string{styles.AccentText.Bold(true).Render(title)}
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		lines = append(lines, keyStyle.Render(h.Key)+styles.Text.Render(h.Desc))
	}
	return strings.Join(lines, "\n")
}
