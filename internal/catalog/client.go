package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/shelf/internal/library"
)

const (
	// DefaultURL is the public Google Books volumes endpoint.
	DefaultURL = "https://www.googleapis.com/books/v1/volumes"

	// MaxResults caps every search.
	MaxResults = 12

	// MinQueryLength is the shortest query the UI submits.
	MinQueryLength = 3

	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 10 * time.Second
)

// Searcher is implemented by *Client and fakes in tests.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Volume, error)
	Volume(ctx context.Context, id string) (Volume, error)
}

var _ Searcher = (*Client)(nil)

// Client queries the external catalog. It is always live, preview mode
// only affects the collection store.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for the given volumes endpoint. An empty
// endpoint uses DefaultURL.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultURL
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse catalog url %q: need scheme and host", endpoint)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		endpoint:  u,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// Search runs a free-text query and returns at most MaxResults volumes.
func (c *Client) Search(ctx context.Context, query string) ([]Volume, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("maxResults", strconv.Itoa(MaxResults))

	reqURL := *c.endpoint
	reqURL.RawQuery = values.Encode()

	var payload searchResponse
	if err := c.get(ctx, &reqURL, &payload); err != nil {
		return nil, fmt.Errorf("search books: %w: %w", library.ErrOperationFailed, err)
	}

	volumes := make([]Volume, 0, len(payload.Items))
	for _, item := range payload.Items {
		if len(volumes) == MaxResults {
			break
		}
		volumes = append(volumes, item.flatten())
	}
	return volumes, nil
}

// Volume fetches a single volume by its catalog id.
func (c *Client) Volume(ctx context.Context, id string) (Volume, error) {
	if c == nil {
		return Volume{}, fmt.Errorf("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Volume{}, fmt.Errorf("lookup volume: %w: id required", library.ErrOperationFailed)
	}
	reqURL := *c.endpoint
	reqURL.Path = c.endpoint.Path + "/" + id
	reqURL.RawPath = c.endpoint.EscapedPath() + "/" + url.PathEscape(id)

	var item volumeItem
	if err := c.get(ctx, &reqURL, &item); err != nil {
		return Volume{}, fmt.Errorf("lookup volume: %w: %w", library.ErrOperationFailed, err)
	}
	return item.flatten(), nil
}

func (c *Client) get(ctx context.Context, reqURL *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
