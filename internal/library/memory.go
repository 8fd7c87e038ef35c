package library

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore keeps the collection in process memory. It backs preview mode
// and mirrors the remote contract: same shapes, same failure triggers.
type MemoryStore struct {
	mu     sync.Mutex
	books  []Book
	nextID int
}

// NewMemoryStore returns an empty store whose first id is "1".
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// List returns a copy of the stored books in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBooks(s.books), nil
}

// Add appends the draft under the next sequential id.
func (s *MemoryStore) Add(ctx context.Context, draft Draft) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextID == 0 {
		s.nextID = 1
	}
	book := Book{
		ID:           strconv.Itoa(s.nextID),
		CatalogID:    draft.CatalogID,
		Title:        draft.Title,
		Authors:      append([]string{}, draft.Authors...),
		ThumbnailURL: draft.ThumbnailURL,
		Status:       draft.Status,
	}
	s.nextID++
	s.books = append(s.books, book)
	return cloneBook(book), nil
}

// Update merges the change into the book with the given id.
func (s *MemoryStore) Update(ctx context.Context, id string, change Change) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change = change.Normalize()
	for i := range s.books {
		if s.books[i].ID != id {
			continue
		}
		s.books[i].Status = change.Status
		s.books[i].LentTo = change.LentTo
		return cloneBook(s.books[i]), nil
	}
	return Book{}, opFailed("update book", fmt.Errorf("book %s not found", id))
}

// Delete removes the book with the given id; unknown ids are ignored.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.books[:0]
	for _, b := range s.books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.books = kept
	return nil
}
