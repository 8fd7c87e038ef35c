package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/logtail"
)

// activityState holds the tail of shelf's own log.
type activityState struct {
	viewport viewport.Model
	entries  []logtail.Entry
	err      error
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

func loadActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return activityMsg{}
		}
		lines, err := logtail.Read(path, ActivityLineLimit)
		if err != nil {
			return activityMsg{err: err}
		}
		return activityMsg{entries: logtail.ParseAll(lines)}
	}
}

func (m *Model) handleActivity(msg activityMsg) {
	m.activity.err = msg.err
	if msg.err == nil {
		m.activity.entries = msg.entries
	}
	m.updateActivityViewport()
	m.activity.viewport.GotoBottom()
}

func (m *Model) updateActivityViewport() {
	if !m.ready {
		return
	}
	m.activity.viewport.Width = max(m.width-2, 1)
	m.activity.viewport.Height = max(m.contentHeight()-2, 1)
	m.activity.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.activity.viewport.SetContent(m.renderActivityContent())
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewLibrary
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, loadActivityCmd(m.logFile)
	case key.Matches(msg, m.keys.Top):
		m.activity.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.activity.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.activity.viewport, cmd = m.activity.viewport.Update(msg)
	return m, cmd
}

func (m Model) renderActivity() string {
	title := "Activity"
	if m.logFile != "" {
		title += " · " + m.logFile
	}
	return m.renderTitledBox(title, m.activity.viewport.View(), m.width, m.contentHeight(), true)
}

func (m Model) renderActivityContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := max(m.width-2, 1)

	if m.activity.err != nil {
		return bg.Render("Could not read log: "+m.activity.err.Error(), styles.DangerText)
	}
	if len(m.activity.entries) == 0 {
		return bg.Render("No activity yet", styles.MutedText)
	}

	lines := make([]string, 0, len(m.activity.entries))
	for _, e := range m.activity.entries {
		var parts []string
		if e.Time != "" {
			parts = append(parts, bg.Render(e.Time, styles.FaintText))
		}
		if e.Component != "" {
			parts = append(parts, bg.Render("["+e.Component+"]", styles.InfoText))
		}
		parts = append(parts, bg.Render(e.Message, m.levelStyle(e.Level, styles)))
		lines = append(lines, bg.FillLine(strings.Join(parts, bg.Space()), width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) levelStyle(level logtail.Level, styles Styles) lipgloss.Style {
	switch level {
	case logtail.LevelError:
		return styles.DangerText
	case logtail.LevelWarn:
		return styles.WarningText
	default:
		return styles.Text
	}
}
