package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/library"
)

type modalAction int

const (
	modalNone modalAction = iota
	modalClose
	modalSave
	modalDelete
)

// modalResult tells the model what a key press inside a modal asked for.
type modalResult struct {
	action modalAction
	bookID string
	change library.Change
}

// Modal is the interface for modal dialogs. Update handles a key press;
// Forward passes along non-key messages such as cursor blinks.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (tea.Cmd, modalResult)
	Forward(msg tea.Msg) tea.Cmd
	View(theme Theme, width, height int) string
}
