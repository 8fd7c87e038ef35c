package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/library"
)

var _ Modal = (*bookModal)(nil)

// bookModal edits a single book's status and borrower.
type bookModal struct {
	book   library.Book
	status library.Status
	lentTo textinput.Model
}

func newBookModal(b library.Book) *bookModal {
	ti := textinput.New()
	ti.Placeholder = "Borrower name"
	ti.CharLimit = 80
	ti.Width = 30
	ti.SetValue(b.LentTo)

	bm := &bookModal{book: b, status: b.Status, lentTo: ti}
	if !bm.status.Valid() {
		bm.status = library.StatusWantToRead
	}
	bm.syncFocus()
	return bm
}

// syncFocus shows the borrower field only while the status is lent.
func (b *bookModal) syncFocus() tea.Cmd {
	if b.status == library.StatusLent {
		return b.lentTo.Focus()
	}
	b.lentTo.Blur()
	return nil
}

func (b *bookModal) change() library.Change {
	return library.Change{Status: b.status, LentTo: b.lentTo.Value()}.Normalize()
}

func (b *bookModal) Update(msg tea.KeyMsg, keys keyMap) (tea.Cmd, modalResult) {
	switch {
	case key.Matches(msg, keys.Escape):
		return nil, modalResult{action: modalClose}
	case key.Matches(msg, keys.ModalDel):
		return nil, modalResult{action: modalDelete, bookID: b.book.ID}
	case key.Matches(msg, keys.Save):
		return nil, modalResult{action: modalSave, bookID: b.book.ID, change: b.change()}
	case key.Matches(msg, keys.PrevStatus):
		b.status = b.status.Prev()
		return b.syncFocus(), modalResult{}
	case key.Matches(msg, keys.NextStatus):
		b.status = b.status.Next()
		return b.syncFocus(), modalResult{}
	}
	return b.Forward(msg), modalResult{}
}

func (b *bookModal) Forward(msg tea.Msg) tea.Cmd {
	if !b.lentTo.Focused() {
		return nil
	}
	var cmd tea.Cmd
	b.lentTo, cmd = b.lentTo.Update(msg)
	return cmd
}

func (b *bookModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var sb strings.Builder
	sb.WriteString(styles.Text.Bold(true).Render(truncate(b.book.Title, 48)))
	sb.WriteString("\n")
	sb.WriteString(styles.MutedText.Render(truncate(b.book.AuthorLine(), 48)))
	sb.WriteString("\n")
	sb.WriteString(styles.FaintText.Render(strings.Repeat("─", 48)))
	sb.WriteString("\n\n")

	sb.WriteString(styles.MutedText.Render("Status"))
	sb.WriteString("\n")
	chips := make([]string, 0, len(library.Statuses()))
	for _, s := range library.Statuses() {
		if s == b.status {
			chips = append(chips, styles.StatusBadge(s).Bold(true).Render(s.Label()))
			continue
		}
		chips = append(chips, styles.FaintText.Padding(0, 1).Render(s.Label()))
	}
	sb.WriteString(strings.Join(chips, " "))
	sb.WriteString("\n\n")

	if b.status == library.StatusLent {
		sb.WriteString(styles.AccentText.Render("Lent to: "))
		sb.WriteString(b.lentTo.View())
		sb.WriteString("\n\n")
	}

	sb.WriteString(styles.FaintText.Render("←/→: Status  •  Enter: Save  •  Ctrl+D: Remove  •  Esc: Close"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(60)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(sb.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
