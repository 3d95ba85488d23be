package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/tecnojuy/aula/internal/state"
)

// renderMain composes header, body and footer.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	var body string
	switch m.currentView {
	case ViewUpload:
		body = m.renderUpload()
	case ViewLogs:
		body = m.renderLogs()
	default:
		if m.snapshot.Authenticated() {
			body = m.renderDashboard()
		} else {
			body = m.renderHome()
		}
	}
	body = lipgloss.NewStyle().Padding(1, 2).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{styles.Logo.Render("aula")}
	phase := snap.Phase.String()
	if snap.Loading || snap.Phase == state.PhaseChecking || m.refreshing {
		parts = append(parts, m.spinner.View()+styles.StatusStyle("checking").Render("checking"))
	} else {
		parts = append(parts, styles.StatusStyle(phase).Render(phase))
	}
	if m.config.IsDev() {
		parts = append(parts, styles.WarningText.Render("dev "+m.config.Origin))
	}
	if m.upload.running() {
		parts = append(parts, styles.StatusStyle("uploading").Render(fmt.Sprintf("upload %d%%", m.upload.percent)))
	}
	parts = append(parts, styles.FaintText.Render("updated "+humanizeSince(m.lastUpdated, time.Now())))

	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var lines []string
	if m.notice != "" {
		if m.noticeErr {
			lines = append(lines, styles.DangerText.Render(m.notice))
		} else {
			lines = append(lines, styles.InfoText.Render(m.notice))
		}
	}
	var km help.KeyMap = m.keys
	if m.currentView == ViewUpload && !m.upload.running() {
		km = uploadKeyMap{m.keys}
	}
	lines = append(lines, m.help.View(km))
	return styles.Footer.Render(strings.Join(lines, "\n"))
}

// renderHome is shown while nobody is signed in.
func (m Model) renderHome() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Welcome to Tecnojuy"))
	b.WriteString("\n\n")
	switch snap.Phase {
	case state.PhaseUnchecked, state.PhaseChecking:
		b.WriteString(m.spinner.View())
		b.WriteString(styles.MutedText.Render("Checking your session..."))
	default:
		b.WriteString(styles.Text.Render("You are not signed in."))
		b.WriteString("\n\n")
		b.WriteString(styles.Text.Render("Press "))
		b.WriteString(styles.WarningText.Render("l"))
		b.WriteString(styles.Text.Render(" to sign in with Google in your browser."))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Or copy the session cookies with: aula session import --access <token>"))
	}
	if snap.LastError != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(snap.LastError.Error()))
	}
	if snap.ConsecutiveFailures > 0 {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d failed checks in a row", snap.ConsecutiveFailures)))
	}
	return b.String()
}

// renderDashboard shows the signed-in user and their courses.
func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	user := snap.User
	var b strings.Builder

	name := user.Name
	if name == "" {
		name = user.Email
	}
	b.WriteString(styles.Text.Bold(true).Render(name))
	b.WriteString("  ")
	role := strings.ToLower(user.RoleName)
	if role == "" {
		role = "user"
	}
	b.WriteString(styles.StatusStyle(role).Render(role))
	if user.HasPremiumAccess {
		b.WriteString(" ")
		b.WriteString(styles.StatusStyle("premium").Render("premium"))
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(user.Email))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("My courses"))
	b.WriteString("\n")
	switch {
	case snap.CoursesError != nil:
		b.WriteString(styles.DangerText.Render(snap.CoursesError.Error()))
		b.WriteString("\n")
	case len(snap.Courses) == 0:
		b.WriteString(styles.MutedText.Render("No courses yet."))
		b.WriteString("\n")
	default:
		titleWidth := m.width - 40
		if titleWidth < 20 {
			titleWidth = 20
		}
		for _, c := range snap.Courses {
			b.WriteString(styles.Text.Render(padRight(truncate(c.Title, titleWidth), titleWidth)))
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(padRight(c.Level, 13)))
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d lessons", c.LessonCount)))
			if c.IsPremium {
				b.WriteString(" ")
				b.WriteString(styles.WarningText.Render("premium"))
			}
			b.WriteString("\n")
		}
	}

	if snap.IsAdmin() {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Admin tools are available from the command line: aula courses, aula users."))
	}
	return b.String()
}
