package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/shelf/internal/library"
)

// Snapshot is the cached book list the UI renders from.
type Snapshot struct {
	Books               []library.Book
	Loaded              bool // at least one List succeeded
	Stale               bool // a mutation happened since the last refresh
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the last two refreshes failed.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates refreshes and reads of the cached list.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the result of a List call. On error the previous books are
// kept and the error is recorded. The last call to complete wins.
func (s *Store) Update(books []library.Book, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Books = cloneBooks(books)
	s.snapshot.Loaded = true
	s.snapshot.Stale = false
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Invalidate marks the cached list as out of date after a mutation.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snapshot.Stale = true
	s.mu.Unlock()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Books = cloneBooks(s.snapshot.Books)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneBooks(books []library.Book) []library.Book {
	if len(books) == 0 {
		return nil
	}
	dup := make([]library.Book, len(books))
	for i, b := range books {
		b.Authors = append([]string(nil), b.Authors...)
		dup[i] = b
	}
	return dup
}
