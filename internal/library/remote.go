package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	booksPath        = "/api/app-library/books"
	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 10 * time.Second
)

// RemoteStore talks to the library-records backend.
type RemoteStore struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
}

// RemoteOption customises a RemoteStore.
type RemoteOption func(*RemoteStore)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(s *RemoteStore) {
		if c != nil {
			s.http = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) RemoteOption {
	return func(s *RemoteStore) {
		if d > 0 {
			s.http.Timeout = d
		}
	}
}

// NewRemoteStore builds a store rooted at backendURL.
func NewRemoteStore(backendURL string, tokens TokenSource, opts ...RemoteOption) (*RemoteStore, error) {
	base, err := ParseBaseURL(backendURL)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	s := &RemoteStore{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		tokens:    tokens,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List fetches the whole collection.
func (s *RemoteStore) List(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := s.do(ctx, http.MethodGet, booksPath, nil, &books); err != nil {
		return nil, opFailed("fetch books", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Add posts the draft; the server assigns the id.
func (s *RemoteStore) Add(ctx context.Context, draft Draft) (Book, error) {
	if draft.Authors == nil {
		draft.Authors = []string{}
	}
	var book Book
	if err := s.do(ctx, http.MethodPost, booksPath, draft, &book); err != nil {
		return Book{}, opFailed("save book", err)
	}
	return book, nil
}

// Update replaces status and borrower of a book.
func (s *RemoteStore) Update(ctx context.Context, id string, change Change) (Book, error) {
	var book Book
	if err := s.do(ctx, http.MethodPut, itemPath(id), change.Normalize(), &book); err != nil {
		return Book{}, opFailed("update book", err)
	}
	return book, nil
}

// Delete removes a book.
func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	if err := s.do(ctx, http.MethodDelete, itemPath(id), nil, nil); err != nil {
		return opFailed("delete book", err)
	}
	return nil
}

func itemPath(id string) string {
	return booksPath + "/" + url.PathEscape(id)
}

func (s *RemoteStore) do(ctx context.Context, method, path string, body, dest any) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	reqURL := s.baseURL.String() + path

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := s.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api %s %s returned status %d", method, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ParseBaseURL normalises a backend location to scheme://host[/prefix].
// A bare host:port gets an http scheme.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("backend url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse backend url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
