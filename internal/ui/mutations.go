package ui

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/library"
)

type mutationKind int

const (
	mutationAdd mutationKind = iota
	mutationUpdate
	mutationDelete
)

func (k mutationKind) String() string {
	switch k {
	case mutationAdd:
		return "add"
	case mutationUpdate:
		return "update"
	default:
		return "delete"
	}
}

func (k mutationKind) successText() string {
	switch k {
	case mutationAdd:
		return "Book added to library!"
	case mutationUpdate:
		return "Book updated!"
	default:
		return "Book removed"
	}
}

func (k mutationKind) failureText() string {
	switch k {
	case mutationAdd:
		return "Failed to add book"
	case mutationUpdate:
		return "Failed to update"
	default:
		return "Failed to delete"
	}
}

type mutationDoneMsg struct {
	kind mutationKind
	key  string
	err  error
}

// addKey namespaces catalog ids so they never collide with book ids.
func addKey(catalogID string) string {
	return "catalog:" + catalogID
}

func (m Model) beginAdd(v catalog.Volume) (tea.Model, tea.Cmd) {
	lib := m.library
	draft := v.Draft()
	return m.beginMutation(mutationAdd, addKey(v.ID), func(ctx context.Context) error {
		_, err := lib.Add(ctx, draft)
		return err
	})
}

func (m Model) beginUpdate(id string, change library.Change) (tea.Model, tea.Cmd) {
	lib := m.library
	return m.beginMutation(mutationUpdate, id, func(ctx context.Context) error {
		_, err := lib.Update(ctx, id, change)
		return err
	})
}

func (m Model) beginDelete(id string) (tea.Model, tea.Cmd) {
	lib := m.library
	return m.beginMutation(mutationDelete, id, func(ctx context.Context) error {
		return lib.Delete(ctx, id)
	})
}

// beginMutation refuses a second mutation on the same key while the first
// is still running.
func (m Model) beginMutation(kind mutationKind, key string, run func(context.Context) error) (tea.Model, tea.Cmd) {
	if m.pending[key] {
		cmd := m.showToast(toastWarn, "Still saving…")
		return m, cmd
	}
	m.pending[key] = true
	return m, mutationCmd(m.ctx, kind, key, run)
}

func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, msg.key)

	if msg.err != nil {
		log.Printf("library: %s failed: %v", msg.kind, msg.err)
		cmd := m.showToast(toastError, msg.kind.failureText())
		return m, cmd
	}

	m.store.Invalidate()
	m.snapshot.Stale = true
	toastCmd := m.showToast(toastSuccess, msg.kind.successText())
	return m, tea.Batch(toastCmd, loadBooksCmd(m.ctx, m.library, m.store))
}

func mutationCmd(ctx context.Context, kind mutationKind, key string, run func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{kind: kind, key: key, err: run(ctx)}
	}
}
