package app

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

// Deps are the collaborators shared by the TUI and the CLI subcommands.
// One set is built per application load.
type Deps struct {
	Config   config.Config
	Resolver *session.Resolver
	Session  *session.Session
	Library  library.Store
	Catalog  *catalog.Client
	State    *state.Store
}

// NewDeps builds a fresh session, store and catalog client from cfg. The
// store is chosen once here: in-memory without a backend, HTTP otherwise.
func NewDeps(cfg config.Config) (*Deps, error) {
	resolver, err := session.NewResolver(session.Options{
		BackendURL:    cfg.BackendURL,
		LoginPath:     cfg.LoginPath,
		SessionCookie: cfg.SessionCookie,
		Timeout:       cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init session resolver: %w", err)
	}

	sess := session.New()
	lib, err := library.New(cfg.BackendURL, sess, library.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("init library store: %w", err)
	}

	cat, err := catalog.NewClient(cfg.CatalogURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	return &Deps{
		Config:   cfg,
		Resolver: resolver,
		Session:  sess,
		Library:  lib,
		Catalog:  cat,
		State:    &state.Store{},
	}, nil
}

// LoginRequiredError is returned by Authenticate when the user has to sign
// in through the backend first.
type LoginRequiredError struct {
	URL string
}

func (e *LoginRequiredError) Error() string {
	return "login required: open " + e.URL
}

// Authenticate resolves the session once, outside the TUI, and records the
// result in d.Session.
func Authenticate(ctx context.Context, d *Deps, location *url.URL) error {
	result := d.Resolver.Resolve(ctx, location)
	d.Session.Apply(result)
	if r, ok := result.(session.Unauthenticated); ok {
		return &LoginRequiredError{URL: r.RedirectTarget}
	}
	return nil
}

// TokenLocation returns base with the token query parameter set. An empty
// token returns base unchanged.
func TokenLocation(base *url.URL, token string) *url.URL {
	if token == "" {
		return base
	}
	loc := &url.URL{}
	if base != nil {
		dup := *base
		loc = &dup
	}
	q := loc.Query()
	q.Set(session.TokenParam, token)
	loc.RawQuery = q.Encode()
	return loc
}

// SetupLogging sends the standard logger to path, creating its directory.
// The returned func closes the file.
func SetupLogging(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
