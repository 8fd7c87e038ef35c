package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/library"
)

// visibleBooks returns the filtered and sorted list the user sees.
func (m Model) visibleBooks() []library.Book {
	return library.Sort(library.FilterByStatus(m.snapshot.Books, m.filter), m.sortOrder)
}

func (m Model) selectedBook() *library.Book {
	books := m.visibleBooks()
	if m.cursor < 0 || m.cursor >= len(books) {
		return nil
	}
	b := books[m.cursor]
	return &b
}

func (m *Model) clampCursor() {
	n := len(m.visibleBooks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextFilter cycles All → each status → All.
func nextFilter(current library.Status) library.Status {
	statuses := library.Statuses()
	if current == "" {
		return statuses[0]
	}
	for i, s := range statuses {
		if s == current && i+1 < len(statuses) {
			return statuses[i+1]
		}
	}
	return ""
}

func filterLabel(status library.Status) string {
	if status == "" {
		return "All"
	}
	return status.Label()
}

// handleLibraryKey processes keyboard input for the library view.
func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.visibleBooks())

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(count-1, 0)

	case key.Matches(msg, m.keys.CycleFilter):
		m.filter = nextFilter(m.filter)
		m.cursor = 0
	case key.Matches(msg, m.keys.CycleSort):
		m.sortOrder = m.sortOrder.Next()
		m.cursor = 0
		m.savePrefs()

	case key.Matches(msg, m.keys.OpenBook):
		if b := m.selectedBook(); b != nil {
			bm := newBookModal(*b)
			m.modal = bm
			return m, bm.syncFocus()
		}
	case key.Matches(msg, m.keys.DeleteBook):
		if b := m.selectedBook(); b != nil {
			return m.beginDelete(b.ID)
		}

	case key.Matches(msg, m.keys.OpenSearch):
		m.currentView = ViewSearch
		cmd := m.search.focusInput()
		return m, cmd
	case key.Matches(msg, m.keys.OpenActivity):
		m.currentView = ViewActivity
		return m, loadActivityCmd(m.logFile)
	case key.Matches(msg, m.keys.Reload):
		return m, loadBooksCmd(m.ctx, m.library, m.store)
	}

	return m, nil
}

// renderLibrary renders filter chips and the book list.
func (m Model) renderLibrary() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	chips := m.renderFilterChips()
	boxHeight := height - 1

	title := "My Library · " + filterLabel(m.filter)
	if len(m.snapshot.Books) == 0 || len(m.visibleBooks()) == 0 {
		msg := "Your library is empty"
		hint := "Press / to search the catalog"
		if len(m.snapshot.Books) > 0 {
			msg = "No books with this status"
			hint = "Press f to change the filter"
		}
		if !m.snapshot.Loaded && m.snapshot.LastError == nil {
			msg, hint = "Loading books…", ""
		}
		bg := m.theme.SurfaceAlt
		body := lipgloss.Place(m.width-2, boxHeight-2, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Background(lipgloss.Color(bg)).Render(msg)+"\n"+
				styles.FaintText.Background(lipgloss.Color(bg)).Render(hint),
			lipgloss.WithWhitespaceBackground(lipgloss.Color(bg)))
		return chips + "\n" + m.renderTitledBox(title, body, m.width, boxHeight, false)
	}

	rows := m.renderBookRows(m.width-2, boxHeight-2)
	return chips + "\n" + m.renderTitledBox(title, rows, m.width, boxHeight, true)
}

// renderFilterChips renders "All (n) Want to Read (n) ..." and the sort.
func (m Model) renderFilterChips() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	counts := library.CountByStatus(m.snapshot.Books)
	chip := func(status library.Status, n int) string {
		label := fmt.Sprintf("%s (%d)", filterLabel(status), n)
		if status == m.filter {
			return styles.Selected.Padding(0, 1).Render(label)
		}
		if status == "" {
			return bg.Render(" "+label+" ", styles.MutedText)
		}
		return bg.Render(" "+label+" ", styles.StatusText(status).Background(lipgloss.Color(m.theme.Background)))
	}

	parts := []string{chip("", len(m.snapshot.Books))}
	for _, s := range library.Statuses() {
		parts = append(parts, chip(s, counts[s]))
	}
	parts = append(parts,
		bg.Render("Sort:", styles.FaintText)+bg.Space()+bg.Render(m.sortOrder.Label(), styles.AccentText))

	return bg.FillLine(bg.Join(parts, " "), m.width)
}

// renderBookRows renders the visible window of rows so the cursor stays on
// screen.
func (m Model) renderBookRows(width, height int) string {
	books := m.visibleBooks()
	height = max(height, 1)

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(books))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.formatBookRow(books[i], width, i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

// formatBookRow formats "[Status] Title · Authors → Borrower".
func (m Model) formatBookRow(b library.Book, width int, selected bool) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	badgeText := padRight(b.Status.Label(), 12)
	badge := styles.StatusBadge(b.Status).Render(badgeText)

	var titleStyle, authorStyle, lentStyle lipgloss.Style
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		titleStyle, authorStyle, lentStyle = sel.Bold(true), sel, sel
	} else {
		titleStyle = styles.Text
		authorStyle = styles.MutedText
		lentStyle = styles.WarningText
	}

	lent := ""
	if b.Status == library.StatusLent && b.LentTo != "" {
		lent = "→ " + b.LentTo
	}

	used := lipgloss.Width(badge) + 2
	avail := max(width-used-len([]rune(lent))-2, 10)

	title := b.Title
	authors := ""
	if width >= LayoutCompactWidth {
		authors = b.AuthorLine()
	}
	titleWidth := avail
	if authors != "" {
		titleWidth = avail * 3 / 5
	}
	title = truncate(title, titleWidth)

	line := badge + bg.Space() + bg.Render(title, titleStyle)
	if authors != "" {
		rest := avail - len([]rune(title)) - 3
		if rest > 3 {
			line += bg.Render(" · ", styles.FaintText) + bg.Render(truncate(authors, rest), authorStyle)
		}
	}
	if lent != "" {
		line += bg.Spaces(2) + bg.Render(lent, lentStyle)
	}
	return bg.FillLine(line, width)
}
