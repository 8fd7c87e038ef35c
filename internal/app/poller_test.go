package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

type failingLister struct {
	*library.MemoryStore
}

func (failingLister) List(context.Context) ([]library.Book, error) {
	return nil, errors.New("backend down")
}

func authenticatedSession() *session.Session {
	sess := session.New()
	sess.Apply(session.Authenticated{Token: session.PreviewToken, Preview: true})
	return sess
}

func TestRefreshSkipsUntilAuthenticated(t *testing.T) {
	store := &state.Store{}
	lib := library.NewMemoryStore()

	if refresh(context.Background(), store, lib, session.New()) {
		t.Fatal("refresh ran while the session was still loading")
	}
	if store.Snapshot().Loaded {
		t.Fatal("store should stay empty")
	}
}

func TestRefreshUpdatesStore(t *testing.T) {
	ctx := context.Background()
	store := &state.Store{}
	lib := library.NewMemoryStore()
	if _, err := lib.Add(ctx, library.Draft{Title: "Dune", Status: library.StatusRead}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !refresh(ctx, store, lib, authenticatedSession()) {
		t.Fatal("refresh should run once authenticated")
	}
	snap := store.Snapshot()
	if !snap.Loaded || len(snap.Books) != 1 || snap.LastError != nil {
		t.Fatalf("snapshot = %+v, want one book", snap)
	}
}

func TestRefreshKeepsBooksOnFailure(t *testing.T) {
	ctx := context.Background()
	store := &state.Store{}
	store.Update([]library.Book{{ID: "1", Title: "Dune"}}, nil)

	refresh(ctx, store, failingLister{library.NewMemoryStore()}, authenticatedSession())
	refresh(ctx, store, failingLister{library.NewMemoryStore()}, authenticatedSession())

	snap := store.Snapshot()
	if len(snap.Books) != 1 {
		t.Fatalf("books = %v, want the previous list kept", snap.Books)
	}
	if snap.LastError == nil || !snap.IsOffline() {
		t.Fatalf("snapshot = %+v, want offline after two failures", snap)
	}
}

func TestStartPollerRefreshesAtInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	StartPoller(ctx, store, library.NewMemoryStore(), authenticatedSession(), 10*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for !store.Snapshot().Loaded {
		select {
		case <-deadline:
			t.Fatal("poller never refreshed the store")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStartPollerDisabled(t *testing.T) {
	store := &state.Store{}
	StartPoller(context.Background(), store, library.NewMemoryStore(), authenticatedSession(), 0)

	time.Sleep(20 * time.Millisecond)
	if store.Snapshot().Loaded {
		t.Fatal("a zero interval must not start polling")
	}
}
