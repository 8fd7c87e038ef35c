package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

// StartPoller launches a background goroutine that re-fetches the book list
// into store at a fixed cadence. A non-positive interval disables it. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, lib library.Store, sess *session.Session, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			refresh(ctx, store, lib, sess)
		}
	}()
}

// refresh fetches once. It does nothing until the session is authenticated
// and reports whether a fetch happened.
func refresh(ctx context.Context, store *state.Store, lib library.Store, sess *session.Session) bool {
	if sess != nil && !sess.Snapshot().Authenticated {
		return false
	}
	books, err := lib.List(ctx)
	store.Update(books, err)
	if err != nil {
		log.Printf("poller: refresh failed: %v", err)
	}
	return true
}
