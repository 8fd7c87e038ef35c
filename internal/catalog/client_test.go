package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/five82/shelf/internal/library"
)

func TestSearch_DecodesSingleResult(t *testing.T) {
	t.Parallel()

	var gotQuery, gotMax, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":1,"items":[{"id":"x1","volumeInfo":{"title":"Dune"}}]}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/books/v1/volumes", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	got, err := c.Search(context.Background(), "dune")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "x1" || got[0].Title != "Dune" {
		t.Fatalf("Search = %#v, want one volume x1", got)
	}
	if got[0].AuthorLine() != "Unknown Author" {
		t.Fatalf("AuthorLine = %q, want Unknown Author", got[0].AuthorLine())
	}
	if gotPath != "/books/v1/volumes" || gotQuery != "dune" || gotMax != "12" {
		t.Fatalf("request path=%q q=%q maxResults=%q", gotPath, gotQuery, gotMax)
	}
}

func TestSearch_NoItemsIsEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	got, err := c.Search(context.Background(), "zzzzzz")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Search = %#v, want empty", got)
	}
}

func TestSearch_CapsResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := make([]string, 20)
		for i := range items {
			items[i] = fmt.Sprintf(`{"id":"v%d","volumeInfo":{"title":"T%d"}}`, i, i)
		}
		_, _ = w.Write([]byte(`{"totalItems":20,"items":[` + strings.Join(items, ",") + `]}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	got, err := c.Search(context.Background(), "many")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != MaxResults {
		t.Fatalf("len(Search) = %d, want %d", len(got), MaxResults)
	}
}

func TestSearch_HTTPErrorWrapsOperationFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Search(context.Background(), "dune")
	if err == nil || !errors.Is(err, library.ErrOperationFailed) {
		t.Fatalf("Search error = %v, want ErrOperationFailed", err)
	}
	if !strings.Contains(err.Error(), "returned status 429") {
		t.Fatalf("Search error = %q, want status 429", err.Error())
	}
}

func TestVolume_FetchesByID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes/abc" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"abc","volumeInfo":{"title":"Emma","authors":["Jane Austen"],
			"imageLinks":{"thumbnail":"http://img/t","smallThumbnail":"http://img/s"},"publishedDate":"1815"}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/volumes/", time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	v, err := c.Volume(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Volume returned error: %v", err)
	}
	if v.Title != "Emma" || v.ThumbnailURL != "http://img/t" || v.PublishedDate != "1815" {
		t.Fatalf("Volume = %#v", v)
	}

	if _, err := c.Volume(context.Background(), "missing"); err == nil {
		t.Fatalf("Volume(missing) returned nil error")
	}
}

func TestVolumeDraft(t *testing.T) {
	d := Volume{ID: "x1", Title: "Dune"}.Draft()
	if d.CatalogID != "x1" || d.Status != library.StatusWantToRead {
		t.Fatalf("Draft = %#v", d)
	}
	if d.Authors == nil || len(d.Authors) != 0 {
		t.Fatalf("Draft authors = %#v, want empty non-nil", d.Authors)
	}
	if d.ThumbnailURL != "" {
		t.Fatalf("Draft thumbnail = %q, want empty", d.ThumbnailURL)
	}
}

func TestValidQuery(t *testing.T) {
	cases := map[string]bool{
		"":      false,
		"  ab ": false,
		"abc":   true,
		"éé é":  true,
	}
	for in, want := range cases {
		if got := ValidQuery(in); got != want {
			t.Errorf("ValidQuery(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	if _, err := NewClient("not a url/path", 0); err == nil {
		t.Fatalf("NewClient returned nil error for relative url")
	}
	c, err := NewClient("", 0)
	if err != nil {
		t.Fatalf("NewClient(\"\") returned error: %v", err)
	}
	if c.endpoint.String() != DefaultURL {
		t.Fatalf("endpoint = %q, want %q", c.endpoint.String(), DefaultURL)
	}
}
