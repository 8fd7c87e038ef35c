package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
	toastWarn
)

// toast is a short-lived notification in the status line.
type toast struct {
	id   int
	kind toastKind
	text string
}

type toastExpiredMsg struct {
	id int
}

// showToast replaces the current notification and schedules its removal.
func (m *Model) showToast(kind toastKind, text string) tea.Cmd {
	id := m.toast.id + 1
	m.toast = toast{id: id, kind: kind, text: text}
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
