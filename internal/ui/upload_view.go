package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tecnojuy/aula/internal/api"
	"github.com/tecnojuy/aula/internal/upload"
)

const (
	fieldPath = iota
	fieldFolder
)

// uploadState holds the upload form and the task it started.
type uploadState struct {
	path     textinput.Model
	folder   textinput.Model
	focusIdx int
	bar      progress.Model

	task    *upload.Task
	file    string
	size    int64
	percent int
	status  upload.Status
	result  api.UploadResult
	err     error
	formErr string
}

func newUploadState(folder string, theme Theme) uploadState {
	path := textinput.New()
	path.Prompt = "File   "
	path.Placeholder = "/path/to/video.mp4"
	path.CharLimit = 1024

	dest := textinput.New()
	dest.Prompt = "Folder "
	dest.Placeholder = upload.DefaultFolder
	dest.CharLimit = 256
	dest.SetValue(folder)

	s := uploadState{path: path, folder: dest}
	s.applyTheme(theme)
	return s
}

func (s *uploadState) applyTheme(t Theme) {
	s.bar = progress.New(progress.WithSolidFill(t.Accent), progress.WithoutPercentage())
	s.bar.Width = 40
}

func (s *uploadState) resize(width int) {
	w := width - 20
	if w < 20 {
		w = 20
	}
	if w > 60 {
		w = 60
	}
	s.bar.Width = w
	s.path.Width = w
	s.folder.Width = w
}

func (s uploadState) running() bool {
	return s.task != nil && !s.status.Done()
}

func (s uploadState) folderValue() string {
	folder := strings.Trim(strings.TrimSpace(s.folder.Value()), "/")
	if folder == "" {
		return upload.DefaultFolder
	}
	return folder
}

func (s *uploadState) focus() tea.Cmd {
	s.focusIdx = fieldPath
	s.folder.Blur()
	return s.path.Focus()
}

func (s *uploadState) switchField() tea.Cmd {
	if s.focusIdx == fieldPath {
		s.focusIdx = fieldFolder
		s.path.Blur()
		return s.folder.Focus()
	}
	s.focusIdx = fieldPath
	s.folder.Blur()
	return s.path.Focus()
}

// handleUploadKey reports whether the upload view consumed msg.
func (m Model) handleUploadKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.upload.running() {
		switch {
		case key.Matches(msg, m.keys.CancelUpload):
			m.upload.task.Cancel()
			return true, m, nil
		case key.Matches(msg, m.keys.Escape):
			m.currentView = ViewMain
			return true, m, nil
		}
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.upload.path.Blur()
		m.upload.folder.Blur()
		m.currentView = ViewMain
		return true, m, nil

	case key.Matches(msg, m.keys.NextField):
		return true, m, m.upload.switchField()

	case key.Matches(msg, m.keys.Submit):
		path := strings.TrimSpace(m.upload.path.Value())
		if path == "" {
			m.upload.formErr = "Choose a file to upload."
			return true, m, nil
		}
		m.upload.formErr = ""
		return true, m, readFileCmd(path)
	}

	var cmd tea.Cmd
	if m.upload.focusIdx == fieldPath {
		m.upload.path, cmd = m.upload.path.Update(msg)
	} else {
		m.upload.folder, cmd = m.upload.folder.Update(msg)
	}
	return true, m, cmd
}

func (m Model) handleFileRead(msg fileReadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.upload.formErr = msg.err.Error()
		return m, nil
	}
	if err := upload.GeneralPolicy(m.config.Upload.MaxSize).Check(msg.file); err != nil {
		m.upload.formErr = err.Error()
		return m, nil
	}
	if m.uploader == nil {
		m.upload.formErr = "Uploads are not available."
		return m, nil
	}

	folder := m.upload.folderValue()
	task := m.uploader.Start(m.ctx, msg.file, folder)
	m.upload.task = task
	m.upload.file = msg.file.Name
	m.upload.size = msg.file.Size()
	m.upload.percent = 0
	m.upload.status = upload.StatusUploading
	m.upload.result = api.UploadResult{}
	m.upload.err = nil
	m.upload.formErr = ""
	m.upload.path.Blur()
	m.upload.folder.Blur()
	m.log.Info().Str("task", task.ID).Str("file", msg.file.Name).Str("folder", folder).Msg("upload queued")
	m.savePrefs()
	return m, waitForEventCmd(task)
}

func (m Model) handleUploadEvent(msg uploadEventMsg) (tea.Model, tea.Cmd) {
	if m.upload.task == nil || msg.taskID != m.upload.task.ID || msg.closed {
		return m, nil
	}
	ev := msg.event
	if ev.Percent > m.upload.percent || ev.Status.Done() {
		m.upload.percent = ev.Percent
	}
	m.upload.status = ev.Status
	if !ev.Status.Done() {
		return m, waitForEventCmd(m.upload.task)
	}

	m.upload.result = ev.Result
	m.upload.err = ev.Err
	switch ev.Status {
	case upload.StatusSuccess:
		m.setNotice(fmt.Sprintf("Uploaded %s.", m.upload.file), false)
		m.upload.path.SetValue("")
	case upload.StatusCancelled:
		m.setNotice("Upload cancelled.", true)
	default:
		m.setNotice("Upload failed.", true)
	}
	if m.currentView == ViewUpload {
		return m, m.upload.focus()
	}
	return m, nil
}

func (m Model) renderUpload() string {
	styles := m.theme.Styles()
	s := m.upload
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Upload a file"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("Images, PDFs, text, video and audio up to %s.", upload.FormatSize(m.config.Upload.MaxSize))))
	b.WriteString("\n\n")
	b.WriteString(s.path.View())
	b.WriteString("\n")
	b.WriteString(s.folder.View())
	b.WriteString("\n")
	if s.formErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(s.formErr))
		b.WriteString("\n")
	}

	if s.task != nil {
		b.WriteString("\n")
		b.WriteString(styles.StatusStyle(s.status.String()).Render(s.status.String()))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(truncateMiddle(s.file, 40)))
		b.WriteString(styles.MutedText.Render(" (" + upload.FormatSize(s.size) + ")"))
		b.WriteString("\n")
		b.WriteString(s.bar.ViewAs(float64(s.percent) / 100))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf(" %3d%%", s.percent)))
		b.WriteString("\n")
		switch {
		case s.status == upload.StatusSuccess:
			b.WriteString(styles.SuccessText.Render(s.result.PublicURL))
			b.WriteString("\n")
			b.WriteString(styles.FaintText.Render(s.result.ObjectKey))
			b.WriteString("\n")
		case s.err != nil:
			b.WriteString(styles.DangerText.Render(s.err.Error()))
			b.WriteString("\n")
		}
	}
	return b.String()
}
