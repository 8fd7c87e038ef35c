package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"
)

const callbackPath = "/callback"

const callbackPage = `<!doctype html><html><body><p>Signed in. You can close this tab and return to the terminal.</p></body></html>`

// Callback is a loopback listener that receives the browser after the
// backend login page redirects back. Its URL is the location handed to
// Resolve and embedded as redirect target.
type Callback struct {
	listener net.Listener
	server   *http.Server
	location *url.URL
	hits     chan *url.URL
}

// ListenCallback starts listening on addr (for example "127.0.0.1:0").
func ListenCallback(addr string) (*Callback, error) {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for login callback: %w", err)
	}

	cb := &Callback{
		listener: ln,
		location: &url.URL{Scheme: "http", Host: ln.Addr().String(), Path: callbackPath},
		hits:     make(chan *url.URL, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+callbackPath, cb.handle)
	cb.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := cb.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("session: callback server: %v", err)
		}
	}()
	return cb, nil
}

// Location is the URL the browser should return to.
func (c *Callback) Location() *url.URL {
	return cloneURL(c.location)
}

// Wait blocks until the browser hits the callback or ctx ends. The returned
// URL carries whatever query the backend appended. Wait may be called again
// for a later login attempt.
func (c *Callback) Wait(ctx context.Context) (*url.URL, error) {
	select {
	case u := <-c.hits:
		return u, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the listener.
func (c *Callback) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return c.server.Shutdown(ctx)
}

func (c *Callback) handle(w http.ResponseWriter, r *http.Request) {
	got := cloneURL(c.location)
	got.RawQuery = r.URL.RawQuery

	// Only the latest unread return is kept.
	select {
	case c.hits <- got:
	default:
		select {
		case <-c.hits:
		default:
		}
		select {
		case c.hits <- got:
		default:
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(callbackPage))
}
