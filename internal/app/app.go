package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/shelf/prefs.toml
	RefreshEvery int    // seconds; zero disables background refresh
	Token        string // adopted as if returned from the login page
	CallbackAddr string // loopback address for the login return; empty picks a port
	Out          io.Writer
}

// Run boots the shelf TUI until the user quits or the context is cancelled.
// When the session does not resolve it prints the login URL, waits for the
// browser to come back and starts over with a fresh session and store.
func Run(ctx context.Context, opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	config.LoadDotEnv(".")
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	closeLog, err := SetupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var location *url.URL
	var cb *session.Callback
	if !cfg.PreviewMode() {
		cb, err = session.ListenCallback(opts.CallbackAddr)
		if err != nil {
			return err
		}
		defer func() { _ = cb.Close() }()
		location = cb.Location()
	}
	location = TokenLocation(location, opts.Token)

	interval := time.Duration(opts.RefreshEvery) * time.Second

	for {
		deps, err := NewDeps(cfg)
		if err != nil {
			return err
		}

		runCtx, cancel := context.WithCancel(ctx)
		StartPoller(runCtx, deps.State, deps.Library, deps.Session, interval)

		uiRefresh := time.Duration(0)
		if interval > 0 {
			uiRefresh = ui.DefaultUIInterval
		}
		outcome, err := ui.Run(ui.Options{
			Context:      runCtx,
			Resolver:     deps.Resolver,
			Location:     location,
			Session:      deps.Session,
			Library:      deps.Library,
			Catalog:      deps.Catalog,
			State:        deps.State,
			LogFile:      cfg.LogFile,
			RefreshEvery: uiRefresh,
			ThemeName:    userPrefs.Theme,
			Sort:         userPrefs.SortOrder(),
			PrefsPath:    opts.PrefsPath,
		})
		cancel()
		if err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("run ui: %w", err)
		}
		if outcome.RedirectTarget == "" || cb == nil {
			return nil
		}

		log.Printf("app: waiting for login callback")
		fmt.Fprintf(out, "Sign in to continue:\n\n  %s\n\nWaiting for the browser to return… (ctrl+c to quit)\n", outcome.RedirectTarget)
		next, err := cb.Wait(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("wait for login: %w", err)
		}
		location = next
	}
}
