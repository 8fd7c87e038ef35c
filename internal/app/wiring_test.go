package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/library"
	"github.com/five82/shelf/internal/session"
)

func testConfig(backend string) config.Config {
	return config.Config{
		BackendURL:     backend,
		LoginPath:      "/login",
		CatalogURL:     "https://catalog.example/books/v1/volumes",
		RequestTimeout: time.Second,
	}
}

func TestNewDepsPreviewUsesMemoryStore(t *testing.T) {
	d, err := NewDeps(testConfig(""))
	require.NoError(t, err)

	_, ok := d.Library.(*library.MemoryStore)
	assert.True(t, ok, "preview should use the in-memory store, got %T", d.Library)
	assert.True(t, d.Resolver.Preview())

	require.NoError(t, Authenticate(context.Background(), d, nil))
	st := d.Session.Snapshot()
	assert.True(t, st.Authenticated)
	assert.Equal(t, session.PreviewToken, st.Token)
}

func TestNewDepsRemoteUsesHTTPStore(t *testing.T) {
	d, err := NewDeps(testConfig("books.example:8080"))
	require.NoError(t, err)

	_, ok := d.Library.(*library.RemoteStore)
	assert.True(t, ok, "backend should use the HTTP store, got %T", d.Library)
	assert.False(t, d.Resolver.Preview())
}

func TestAuthenticateRequiresLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	d, err := NewDeps(testConfig(srv.URL))
	require.NoError(t, err)

	err = Authenticate(context.Background(), d, nil)
	var loginErr *LoginRequiredError
	require.True(t, errors.As(err, &loginErr), "err = %v", err)
	assert.Equal(t, srv.URL+"/login", loginErr.URL)
	assert.False(t, d.Session.Snapshot().Authenticated)
}

func TestAuthenticateAdoptsToken(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	d, err := NewDeps(testConfig(srv.URL))
	require.NoError(t, err)

	require.NoError(t, Authenticate(context.Background(), d, TokenLocation(nil, "abc123")))
	assert.Equal(t, "abc123", d.Session.Token())
	assert.Zero(t, calls, "a token parameter must skip the session check")
}

func TestTokenLocation(t *testing.T) {
	base, err := url.Parse("http://127.0.0.1:9000/callback?x=1")
	require.NoError(t, err)

	got := TokenLocation(base, "tok")
	assert.Equal(t, "tok", got.Query().Get(session.TokenParam))
	assert.Equal(t, "1", got.Query().Get("x"))
	assert.Empty(t, base.Query().Get(session.TokenParam), "base must not be modified")

	assert.Same(t, base, TokenLocation(base, ""))
}

func TestSetupLoggingCreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/shelf.log"
	closeLog, err := SetupLogging(path)
	require.NoError(t, err)
	defer closeLog()

	assert.FileExists(t, path)
}
