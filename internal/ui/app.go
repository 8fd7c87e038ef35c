package ui

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLibrary View = iota
	ViewSearch
	ViewActivity
)

// SessionResolver is satisfied by *session.Resolver.
type SessionResolver interface {
	Resolve(ctx context.Context, location *url.URL) session.Result
}

// Options configures the UI.
type Options struct {
	Context  context.Context
	Resolver SessionResolver
	Location *url.URL
	Session  *session.Session
	Library  library.Store
	Catalog  catalog.Searcher
	State    *state.Store

	LogFile      string
	RefreshEvery time.Duration // zero disables periodic re-reads
	ThemeName    string
	Sort         library.SortOrder
	PrefsPath    string
}

// Outcome is what the UI reports back when it exits.
type Outcome struct {
	// RedirectTarget is set when the session did not resolve and the user
	// has to sign in first.
	RedirectTarget string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx          context.Context
	resolver     SessionResolver
	location     *url.URL
	session      *session.Session
	library      library.Store
	catalog      catalog.Searcher
	store        *state.Store
	logFile      string
	prefsPath    string
	refreshEvery time.Duration
	keys         keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Session state
	spinner   spinner.Model
	resolving bool
	preview   bool
	redirect  string

	// Library state
	snapshot  state.Snapshot
	filter    library.Status // empty means all
	sortOrder library.SortOrder
	cursor    int

	search   searchState
	activity activityState

	// pending holds keys of mutations still in flight.
	pending map[string]bool
	toast   toast
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = ThemeNames()[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	store := opts.State
	if store == nil {
		store = &state.Store{}
	}

	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:          ctx,
		resolver:     opts.Resolver,
		location:     opts.Location,
		session:      sess,
		library:      opts.Library,
		catalog:      opts.Catalog,
		store:        store,
		logFile:      opts.LogFile,
		prefsPath:    prefsPath,
		refreshEvery: opts.RefreshEvery,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		currentView:  ViewLibrary,
		spinner:      sp,
		resolving:    true,
		sortOrder:    library.ParseSortOrder(string(opts.Sort)),
		search:       newSearchState(),
		pending:      make(map[string]bool),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		resolveSessionCmd(m.ctx, m.resolver, m.location),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.activity.viewport = viewport.New(m.width-4, m.height-5)
		}
		m.ready = true
		m.updateActivityViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.resolving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionResolvedMsg:
		return m.handleSession(msg)

	case booksLoadedMsg:
		m.snapshot = msg.snapshot
		m.clampCursor()
		if msg.err != nil {
			cmd := m.showToast(toastError, "Failed to load books")
			return m, cmd
		}
		return m, nil

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case searchResultsMsg:
		return m.handleSearchResults(msg)

	case activityMsg:
		m.handleActivity(msg)
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toast.id {
			m.toast = toast{id: m.toast.id}
		}
		return m, nil

	case tickMsg:
		if m.resolving || m.refreshEvery <= 0 {
			return m, nil
		}
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.refreshEvery))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampCursor()
		return m, nil
	}

	// Cursor blink and similar messages go to whichever input is focused.
	if m.modal != nil {
		return m, m.modal.Forward(msg)
	}
	if m.currentView == ViewSearch && m.search.input.Focused() {
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.resolving {
		return m.renderLoading()
	}
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// Redirect returns the login URL when the session did not resolve.
func (m Model) Redirect() string {
	return m.redirect
}

func (m Model) handleSession(msg sessionResolvedMsg) (tea.Model, tea.Cmd) {
	m.session.Apply(msg.result)
	m.resolving = false

	switch r := msg.result.(type) {
	case session.Authenticated:
		m.preview = r.Preview
		if r.Preview {
			log.Printf("app: preview mode, changes are kept in memory only")
		} else {
			log.Printf("session: authenticated")
		}
		cmds := []tea.Cmd{loadBooksCmd(m.ctx, m.library, m.store)}
		if m.refreshEvery > 0 {
			cmds = append(cmds, tickCmd(m.refreshEvery))
		}
		return m, tea.Batch(cmds...)

	case session.Unauthenticated:
		log.Printf("session: unauthenticated, login required")
		m.redirect = r.RedirectTarget
		return m, tea.Quit
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.resolving {
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.handleModalKey(msg)
	}
	// Text entry owns every other key.
	if m.currentView == ViewSearch && m.search.input.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	}

	switch m.currentView {
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	default:
		return m.handleLibraryKey(msg)
	}
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, res := m.modal.Update(msg, m.keys)
	switch res.action {
	case modalClose:
		m.modal = nil
	case modalSave, modalDelete:
		if m.pending[res.bookID] {
			cmd := m.showToast(toastWarn, "Still saving…")
			return m, cmd
		}
		m.modal = nil
		if res.action == modalSave {
			return m.beginUpdate(res.bookID, res.change)
		}
		return m.beginDelete(res.bookID)
	}
	return m, cmd
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Sort: string(m.sortOrder)}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("prefs: save failed: %v", err)
	}
}

// renderMain renders header, command bar, the active view and the status line.
func (m Model) renderMain() string {
	var content string
	switch m.currentView {
	case ViewSearch:
		content = m.renderSearch()
	case ViewActivity:
		content = m.renderActivity()
	default:
		content = m.renderLibrary()
	}
	return m.renderHeader() + "\n" +
		m.renderCommandBar() + "\n" +
		content + "\n" +
		m.renderStatusLine()
}

// contentHeight is the room left for a view's box.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type sessionResolvedMsg struct {
	result session.Result
}

type booksLoadedMsg struct {
	snapshot state.Snapshot
	err      error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func resolveSessionCmd(ctx context.Context, resolver SessionResolver, location *url.URL) tea.Cmd {
	return func() tea.Msg {
		if resolver == nil {
			return sessionResolvedMsg{result: session.Authenticated{
				Token:    session.PreviewToken,
				Location: location,
				Preview:  true,
			}}
		}
		return sessionResolvedMsg{result: resolver.Resolve(ctx, location)}
	}
}

func loadBooksCmd(ctx context.Context, lib library.Store, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		books, err := lib.List(ctx)
		store.Update(books, err)
		if err != nil {
			log.Printf("library: fetch failed: %v", err)
		} else {
			log.Printf("library: loaded %d books", len(books))
		}
		return booksLoadedMsg{snapshot: store.Snapshot(), err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) (Outcome, error) {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if err != nil {
		return Outcome{}, err
	}
	if fm, ok := final.(Model); ok {
		return Outcome{RedirectTarget: fm.Redirect()}, nil
	}
	return Outcome{}, nil
}
