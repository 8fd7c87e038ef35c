package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// searchState holds the catalog search view.
type searchState struct {
	input     textinput.Model
	results   []catalog.Volume
	cursor    int
	searching bool
	searched  bool
	seq       int // identifies the latest request; older replies are dropped
	lastQuery string
}

type searchResultsMsg struct {
	seq     int
	query   string
	volumes []catalog.Volume
	err     error
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "Title, author or ISBN"
	ti.CharLimit = 120
	ti.Width = 40
	ti.Prompt = "› "
	return searchState{input: ti}
}

func (s *searchState) focusInput() tea.Cmd {
	return s.input.Focus()
}

// canSubmit reports whether the typed query is long enough and no search is
// running.
func (s searchState) canSubmit() bool {
	return !s.searching && catalog.ValidQuery(s.input.Value())
}

func (s searchState) selected() *catalog.Volume {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return nil
	}
	v := s.results[s.cursor]
	return &v
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.search.input.Blur()
		m.currentView = ViewLibrary
		return m, nil

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.search.input.Focused() {
			if len(m.search.results) > 0 {
				m.search.input.Blur()
			}
			return m, nil
		}
		cmd := m.search.focusInput()
		return m, cmd
	}

	if m.search.input.Focused() {
		if key.Matches(msg, m.keys.Submit) {
			if !m.search.canSubmit() {
				return m, nil
			}
			query := strings.TrimSpace(m.search.input.Value())
			m.search.seq++
			m.search.searching = true
			m.search.lastQuery = query
			return m, searchCmd(m.ctx, m.catalog, m.search.seq, query)
		}
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}

	count := len(m.search.results)
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.search.cursor < count-1 {
			m.search.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.search.cursor > 0 {
			m.search.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.search.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.search.cursor = max(count-1, 0)
	case key.Matches(msg, m.keys.AddResult):
		if v := m.search.selected(); v != nil {
			return m.beginAdd(*v)
		}
	case key.Matches(msg, m.keys.OpenSearch):
		cmd := m.search.focusInput()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSearchResults(msg searchResultsMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.search.seq {
		return m, nil
	}
	m.search.searching = false
	m.search.searched = true

	if msg.err != nil {
		log.Printf("catalog: search %q failed: %v", msg.query, msg.err)
		cmd := m.showToast(toastError, "Search failed")
		return m, cmd
	}

	log.Printf("catalog: %d results for %q", len(msg.volumes), msg.query)
	m.search.results = msg.volumes
	m.search.cursor = 0
	if len(msg.volumes) > 0 {
		m.search.input.Blur()
	}
	return m, nil
}

func searchCmd(ctx context.Context, searcher catalog.Searcher, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		if searcher == nil {
			return searchResultsMsg{seq: seq, query: query, err: fmt.Errorf("catalog not configured")}
		}
		volumes, err := searcher.Search(ctx, query)
		return searchResultsMsg{seq: seq, query: query, volumes: volumes, err: err}
	}
}

// inLibrary reports whether a catalog id is already in the collection.
func (m Model) inLibrary(catalogID string) bool {
	for _, b := range m.snapshot.Books {
		if b.CatalogID == catalogID {
			return true
		}
	}
	return false
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	inner := m.width - 2

	var lines []string
	lines = append(lines, bg.FillLine(m.search.input.View(), inner))

	query := strings.TrimSpace(m.search.input.Value())
	switch {
	case m.search.searching:
		lines = append(lines, bg.FillLine(bg.Render("Searching…", styles.WarningText), inner))
	case query != "" && !catalog.ValidQuery(query):
		lines = append(lines, bg.FillLine(bg.Render(
			fmt.Sprintf("Type at least %d characters", catalog.MinQueryLength), styles.FaintText), inner))
	default:
		lines = append(lines, bg.FillLine("", inner))
	}

	if m.search.searched && !m.search.searching && len(m.search.results) == 0 {
		lines = append(lines, bg.FillLine(bg.Render(
			fmt.Sprintf("No books found for %q", m.search.lastQuery), styles.MutedText), inner))
	}

	rowsHeight := max(m.contentHeight()-2-len(lines), 1)
	start := 0
	if m.search.cursor >= rowsHeight {
		start = m.search.cursor - rowsHeight + 1
	}
	end := min(start+rowsHeight, len(m.search.results))
	for i := start; i < end; i++ {
		lines = append(lines, m.formatResultRow(m.search.results[i], inner, i == m.search.cursor && !m.search.input.Focused()))
	}

	return m.renderTitledBox("Search Catalog", strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

// formatResultRow formats "Title · Authors (Year) [In library]".
func (m Model) formatResultRow(v catalog.Volume, width int, selected bool) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	titleStyle, authorStyle, metaStyle := styles.Text, styles.MutedText, styles.FaintText
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		titleStyle, authorStyle, metaStyle = sel.Bold(true), sel, sel
	}

	marker := ""
	if m.inLibrary(v.ID) {
		marker = "✓ In library"
	}
	year := ""
	if len(v.PublishedDate) >= 4 {
		year = "(" + v.PublishedDate[:4] + ")"
	}

	avail := max(width-len([]rune(marker))-len(year)-6, 10)
	title := truncate(v.Title, avail*3/5)
	authors := truncate(v.AuthorLine(), max(avail-len([]rune(title))-3, 3))

	line := bg.Render(title, titleStyle) +
		bg.Render(" · ", styles.FaintText) +
		bg.Render(authors, authorStyle)
	if year != "" {
		line += bg.Space() + bg.Render(year, metaStyle)
	}
	if marker != "" {
		line += bg.Spaces(2) + bg.Render(marker, styles.SuccessText)
	}
	return bg.FillLine(line, width)
}
