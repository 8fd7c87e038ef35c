package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderLoading is shown while the session is being checked.
func (m Model) renderLoading() string {
	text := m.spinner.View() + " Verifying session…"
	if m.width == 0 || m.height == 0 {
		return text
	}
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Background)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		styles.MutedText.Background(bg).Render(text),
		lipgloss.WithWhitespaceBackground(bg))
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("shelf", styles.Logo),
		bg.Render("My Library", styles.Text.Bold(true)),
	}
	if m.preview {
		parts = append(parts, bg.Render("PREVIEW", styles.WarningText.Bold(true)))
	}

	if m.snapshot.Loaded {
		parts = append(parts, bg.Render(bookCount(len(m.snapshot.Books)), styles.MutedText))
	}

	if ts := m.formatTimestamp(); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(fmt.Sprintf("(%d failures)", m.snapshot.ConsecutiveFailures), styles.MutedText))
	case m.snapshot.LastError != nil:
		maxErr := 60
		if compact {
			maxErr = 24
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	case m.snapshot.Stale:
		parts = append(parts, bg.Render("Refreshing…", styles.WarningText))
	}

	if n := len(m.pending); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("Saving %d…", n), styles.InfoText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last successful fetch with a relative hint.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}
	since := time.Since(last)
	out := last.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short label for a failed fetch.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "UNREACHABLE"
	}
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewSearch:
		if m.search.input.Focused() {
			commands = []cmd{
				{"Enter", "Search"},
				{"Tab", "Results"},
				{"Esc", "Library"},
			}
		} else {
			commands = []cmd{
				{"j/k", "Navigate"},
				{"a", "Add"},
				{"/", "Edit query"},
				{"Esc", "Library"},
				{"?", "More"},
			}
		}
	case ViewActivity:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"Esc", "Library"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"f", filterLabel(m.filter)},
			{"s", m.sortOrder.Label()},
			{"Enter", "Edit"},
			{"x", "Delete"},
			{"/", "Search"},
			{"l", "Activity"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderStatusLine shows the current toast, if any.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	if m.toast.text == "" {
		return bg.FillLine("", m.width)
	}

	var icon string
	var style lipgloss.Style
	switch m.toast.kind {
	case toastError:
		icon, style = "✗", styles.DangerText
	case toastWarn:
		icon, style = "!", styles.WarningText
	default:
		icon, style = "✓", styles.SuccessText
	}
	return bg.FillLine(bg.Spaces(1)+bg.Render(icon+" "+m.toast.text, style), m.width)
}
