package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/ui"
)

// printer writes command results. Colors are only used when writing to a
// terminal; pipes and files get plain columns.
type printer struct {
	w      io.Writer
	styled bool
	styles ui.Styles
}

func newPrinter(w io.Writer, prefsPath string) printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	p, _ := prefs.Load(prefsPath)
	return printer{w: w, styled: styled, styles: ui.GetTheme(p.Theme).Styles()}
}

func (p printer) render(style lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return style.Render(text)
}

func (p printer) books(books []library.Book) {
	if len(books) == 0 {
		fmt.Fprintln(p.w, "No books in library.")
		return
	}

	header := fmt.Sprintf("%-6s %-14s %-40s %-28s %s", "ID", "STATUS", "TITLE", "AUTHORS", "LENT TO")
	fmt.Fprintln(p.w, p.render(p.styles.Text.Bold(true), header))
	fmt.Fprintln(p.w, strings.Repeat("-", 100))

	for _, b := range books {
		status := fmt.Sprintf("%-14s", b.Status.Label())
		fmt.Fprintf(p.w, "%-6s %s %-40s %-28s %s\n",
			clip(b.ID, 6),
			p.render(p.styles.StatusText(b.Status), status),
			clip(b.Title, 40),
			clip(b.AuthorLine(), 28),
			b.LentTo,
		)
	}
	fmt.Fprintf(p.w, "\n%d book(s)\n", len(books))
}

func (p printer) volumes(query string, volumes []catalog.Volume) {
	if len(volumes) == 0 {
		fmt.Fprintf(p.w, "No books found for %q\n", query)
		return
	}

	header := fmt.Sprintf("%-14s %-44s %-28s %s", "CATALOG ID", "TITLE", "AUTHORS", "PUBLISHED")
	fmt.Fprintln(p.w, p.render(p.styles.Text.Bold(true), header))
	fmt.Fprintln(p.w, strings.Repeat("-", 100))

	for _, v := range volumes {
		id := fmt.Sprintf("%-14s", clip(v.ID, 14))
		fmt.Fprintf(p.w, "%s %-44s %-28s %s\n",
			p.render(p.styles.AccentText, id),
			clip(v.Title, 44),
			clip(v.AuthorLine(), 28),
			v.PublishedDate,
		)
	}
}

// clip shortens s to n runes for fixed-width columns.
func clip(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
