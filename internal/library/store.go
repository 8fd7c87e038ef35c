package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrOperationFailed marks every failed data call. Callers only learn which
// action failed; auth, validation and not-found failures are not told apart.
var ErrOperationFailed = errors.New("operation failed")

// Store is the capability every collection backend provides.
type Store interface {
	List(ctx context.Context) ([]Book, error)
	Add(ctx context.Context, draft Draft) (Book, error)
	Update(ctx context.Context, id string, change Change) (Book, error)
	Delete(ctx context.Context, id string) error
}

// TokenSource supplies the bearer credential attached to backend calls.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// Ensure both implementations satisfy Store at compile time.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RemoteStore)(nil)
)

// PreviewMode reports whether a backend location is absent.
func PreviewMode(backendURL string) bool {
	return strings.TrimSpace(backendURL) == ""
}

// New selects the store once: the in-memory store when no backend is
// configured, the HTTP store otherwise.
func New(backendURL string, tokens TokenSource, opts ...RemoteOption) (Store, error) {
	if PreviewMode(backendURL) {
		return NewMemoryStore(), nil
	}
	return NewRemoteStore(backendURL, tokens, opts...)
}

func opFailed(action string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", action, ErrOperationFailed)
	}
	return fmt.Errorf("%s: %w: %w", action, ErrOperationFailed, err)
}
