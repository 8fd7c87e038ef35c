package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/five82/shelf/internal/library"
)

const (
	// PreviewToken is the sentinel credential used when no backend exists.
	PreviewToken = "preview-mode"

	// TokenParam is the query parameter that carries a token on return
	// from the login page.
	TokenParam = "token"

	// RedirectParam names the return target on the login URL.
	RedirectParam = "redirect_uri"

	checkSessionPath = "/check-session"
	defaultLoginPath = "/login"
	defaultUserAgent = "shelf/0.1"
	requestTimeout   = 10 * time.Second
)

// Result is the outcome of Resolve: either Authenticated or Unauthenticated.
type Result interface {
	isResult()
}

// Authenticated carries the adopted credential. Location is the location
// the app was opened with, minus any token parameter.
type Authenticated struct {
	Token    string
	Location *url.URL
	Preview  bool
}

// Unauthenticated tells the caller where to send the user to sign in.
type Unauthenticated struct {
	RedirectTarget string
}

func (Authenticated) isResult()   {}
func (Unauthenticated) isResult() {}

// Resolver decides, once per application load, whether the user may use the
// app and which credential to send.
type Resolver struct {
	backend   *url.URL
	loginPath string
	http      *http.Client
	userAgent string
}

// Options configure a Resolver.
type Options struct {
	BackendURL string
	LoginPath  string
	// SessionCookie, when set, is sent as ambient credentials with the
	// session check (name=value).
	SessionCookie string
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// NewResolver builds a Resolver. An empty BackendURL puts it in preview mode.
func NewResolver(opts Options) (*Resolver, error) {
	r := &Resolver{
		loginPath: normalizeLoginPath(opts.LoginPath),
		userAgent: defaultUserAgent,
	}
	if library.PreviewMode(opts.BackendURL) {
		return r, nil
	}

	base, err := library.ParseBaseURL(opts.BackendURL)
	if err != nil {
		return nil, err
	}
	r.backend = base

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		client.Jar = jar
	}
	if cookie, ok := parseCookie(opts.SessionCookie); ok {
		client.Jar.SetCookies(base, []*http.Cookie{cookie})
	}
	r.http = client
	return r, nil
}

// Preview reports whether no backend is configured.
func (r *Resolver) Preview() bool {
	return r == nil || r.backend == nil
}

// Resolve runs the decision procedure: preview bypass, token parameter,
// backend session check, and finally the login redirect. It never returns
// an error; every failure ends in Unauthenticated.
func (r *Resolver) Resolve(ctx context.Context, location *url.URL) Result {
	loc := cloneURL(location)

	if r.Preview() {
		log.Printf("session: no backend configured, running in preview mode")
		return Authenticated{Token: PreviewToken, Location: loc, Preview: true}
	}

	if token, cleaned := takeToken(loc); token != "" {
		return Authenticated{Token: token, Location: cleaned}
	}

	token, err := r.checkSession(ctx)
	if err != nil {
		log.Printf("session: check failed: %v", err)
	}
	if token != "" {
		return Authenticated{Token: token, Location: loc}
	}

	return Unauthenticated{RedirectTarget: r.LoginURL(loc)}
}

// LoginURL returns the backend login entry point with location as return
// target.
func (r *Resolver) LoginURL(location *url.URL) string {
	if r.Preview() {
		return ""
	}
	login := *r.backend
	login.Path = r.backend.Path + r.loginPath
	if location != nil && location.String() != "" {
		values := url.Values{}
		values.Set(RedirectParam, location.String())
		login.RawQuery = values.Encode()
	}
	return login.String()
}

func (r *Resolver) checkSession(ctx context.Context) (string, error) {
	reqURL := r.backend.String() + checkSessionPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("check-session returned status %d", resp.StatusCode)
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(payload.Token), nil
}

// takeToken removes the token parameter from loc and returns its value.
func takeToken(loc *url.URL) (string, *url.URL) {
	if loc == nil {
		return "", nil
	}
	query := loc.Query()
	token := strings.TrimSpace(query.Get(TokenParam))
	if token == "" {
		return "", loc
	}
	query.Del(TokenParam)
	cleaned := cloneURL(loc)
	cleaned.RawQuery = query.Encode()
	return token, cleaned
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	dup := *u
	if u.User != nil {
		user := *u.User
		dup.User = &user
	}
	return &dup
}

func normalizeLoginPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return defaultLoginPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func parseCookie(raw string) (*http.Cookie, bool) {
	name, value, ok := strings.Cut(strings.TrimSpace(raw), "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, false
	}
	return &http.Cookie{Name: name, Value: strings.TrimSpace(value)}, true
}
