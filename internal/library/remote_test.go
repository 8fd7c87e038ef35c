package library

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal in-process library-records API.
type fakeBackend struct {
	mu       sync.Mutex
	books    []Book
	next     int
	token    string
	requests []*http.Request
	bodies   []map[string]any
}

func newFakeBackend(t *testing.T, token string) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{token: token, next: 100}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/app-library/books", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		writeJSON(w, http.StatusOK, fb.books)
	})
	mux.HandleFunc("POST /api/app-library/books", func(w http.ResponseWriter, r *http.Request) {
		var d Draft
		body := fb.decode(r, &d)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.bodies = append(fb.bodies, body)
		book := Book{
			ID:           strconv.Itoa(fb.next),
			CatalogID:    d.CatalogID,
			Title:        d.Title,
			Authors:      d.Authors,
			ThumbnailURL: d.ThumbnailURL,
			Status:       d.Status,
		}
		fb.next++
		fb.books = append(fb.books, book)
		writeJSON(w, http.StatusCreated, book)
	})
	mux.HandleFunc("PUT /api/app-library/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		var c Change
		body := fb.decode(r, &c)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.bodies = append(fb.bodies, body)
		for i := range fb.books {
			if fb.books[i].ID == r.PathValue("id") {
				fb.books[i].Status = c.Status
				fb.books[i].LentTo = c.LentTo
				writeJSON(w, http.StatusOK, fb.books[i])
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("DELETE /api/app-library/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		kept := fb.books[:0]
		for _, b := range fb.books {
			if b.ID != r.PathValue("id") {
				kept = append(kept, b)
			}
		}
		fb.books = kept
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.requests = append(fb.requests, r.Clone(context.Background()))
		fb.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+fb.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return fb, server
}

func (fb *fakeBackend) decode(r *http.Request, dest any) map[string]any {
	var raw map[string]any
	_ = json.NewDecoder(r.Body).Decode(&raw)
	data, _ := json.Marshal(raw)
	_ = json.Unmarshal(data, dest)
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRemoteStore_CRUDRoundTrip(t *testing.T) {
	fb, server := newFakeBackend(t, "secret")
	s, err := NewRemoteStore(server.URL, StaticToken("secret"))
	require.NoError(t, err)
	ctx := context.Background()

	books, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)

	book, err := s.Add(ctx, Draft{CatalogID: "x1", Title: "Dune", Status: StatusWantToRead})
	require.NoError(t, err)
	assert.Equal(t, "100", book.ID)
	assert.Equal(t, "x1", book.CatalogID)

	_, err = s.Update(ctx, book.ID, Change{Status: StatusLent, LentTo: "Bob"})
	require.NoError(t, err)
	books, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, StatusLent, books[0].Status)
	assert.Equal(t, "Bob", books[0].LentTo)

	require.NoError(t, s.Delete(ctx, book.ID))
	books, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, r := range fb.requests {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
	}
}

func TestRemoteStore_WireBodies(t *testing.T) {
	fb, server := newFakeBackend(t, "tok")
	s, err := NewRemoteStore(server.URL, StaticToken("tok"))
	require.NoError(t, err)
	ctx := context.Background()

	book, err := s.Add(ctx, Draft{CatalogID: "x1", Title: "Dune", Status: StatusWantToRead})
	require.NoError(t, err)
	_, err = s.Update(ctx, book.ID, Change{Status: StatusRead, LentTo: "Alice"})
	require.NoError(t, err)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.bodies, 2)

	post := fb.bodies[0]
	assert.Equal(t, "x1", post["googleBooksId"])
	assert.Equal(t, "Dune", post["title"])
	assert.Equal(t, []any{}, post["authors"])
	assert.Equal(t, "", post["thumbnailUrl"])
	assert.Equal(t, "want_to_read", post["status"])

	put := fb.bodies[1]
	assert.Equal(t, "read", put["status"])
	_, hasLentTo := put["lentTo"]
	assert.False(t, hasLentTo, "lentTo must be omitted unless lent")
}

func TestRemoteStore_NonSuccessStatusFails(t *testing.T) {
	_, server := newFakeBackend(t, "right")
	s, err := NewRemoteStore(server.URL, StaticToken("wrong"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.List(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOperationFailed))
	assert.Contains(t, err.Error(), "fetch books")
	assert.Contains(t, err.Error(), "returned status 401")

	_, err = s.Add(ctx, Draft{Title: "Dune"})
	assert.True(t, errors.Is(err, ErrOperationFailed))

	err = s.Delete(ctx, "1")
	assert.True(t, errors.Is(err, ErrOperationFailed))
}

func TestRemoteStore_UpdateMissingBookFails(t *testing.T) {
	_, server := newFakeBackend(t, "tok")
	s, err := NewRemoteStore(server.URL, StaticToken("tok"))
	require.NoError(t, err)

	_, err = s.Update(context.Background(), "nope", Change{Status: StatusRead})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOperationFailed))
	assert.Contains(t, err.Error(), "returned status 404")
}

func TestRemoteStore_TokenReadPerRequest(t *testing.T) {
	_, server := newFakeBackend(t, "late")
	tok := &mutableToken{}
	s, err := NewRemoteStore(server.URL, tok)
	require.NoError(t, err)

	_, err = s.List(context.Background())
	require.Error(t, err)

	tok.value = "late"
	_, err = s.List(context.Background())
	require.NoError(t, err)
}

func TestRemoteStore_KeepsPathPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, []Book{})
	}))
	t.Cleanup(server.Close)

	s, err := NewRemoteStore(server.URL+"/tenant/", StaticToken("t"))
	require.NoError(t, err)
	_, err = s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tenant/api/app-library/books", gotPath)
}

func TestParseBaseURL(t *testing.T) {
	u, err := ParseBaseURL("example.com:8080")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:8080", u.String())

	u, err = ParseBaseURL("https://example.com/base/?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/base", u.String())

	_, err = ParseBaseURL("   ")
	assert.Error(t, err)
}

type mutableToken struct{ value string }

func (m *mutableToken) Token() string { return m.value }
