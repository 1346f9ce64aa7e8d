package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 15 * time.Second

	// DefaultInterval is the minimum spacing between requests.
	DefaultInterval = time.Second

	// robotsAgent is the user agent robots.txt rules are evaluated for.
	robotsAgent = "*"

	maxBodySize = 10 << 20
)

// Page is the extracted text of a fetched URL.
type Page struct {
	URL       string
	Title     string
	Text      string
	FetchedAt time.Time
}

// Fetcher downloads pages politely.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		f.client = client
		return nil
	}
}

// WithInterval sets the minimum spacing between requests.
// Zero disables rate limiting.
func WithInterval(interval time.Duration) Option {
	return func(f *Fetcher) error {
		if interval < 0 {
			return fmt.Errorf("interval cannot be negative, got %v", interval)
		}
		if interval == 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return nil
		}
		f.limiter = rate.NewLimiter(rate.Every(interval), 1)
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) error {
		f.userAgent = userAgent
		return nil
	}
}

// NewFetcher creates a Fetcher with a 15 second timeout and one request
// per second.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		limiter:   rate.NewLimiter(rate.Every(DefaultInterval), 1),
		userAgent: "triage-fetch/1.0",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	f.logger = f.logger.With("component", "fetch")
	return f, nil
}

// Fetch checks robots.txt, downloads rawURL and extracts its main text.
// A URL forbidden by robots.txt yields ErrDisallowed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	allowed, err := f.Allowed(ctx, u)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}

	body, err := f.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	page := &Page{
		URL:       rawURL,
		Title:     title(doc),
		Text:      mainText(doc),
		FetchedAt: time.Now().UTC(),
	}
	f.logger.Info("fetched page", "url", rawURL, "chars", len(page.Text))
	return page, nil
}

// Allowed reports whether robots.txt on u's host lets the wildcard agent
// fetch u. A robots.txt that cannot be read allows everything.
func (f *Fetcher) Allowed(ctx context.Context, u *url.URL) (bool, error) {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	status, body, err := f.do(ctx, robotsURL, false)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		f.logger.Warn("couldn't read robots.txt", "url", robotsURL, "err", err)
		return true, nil
	}

	robots, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		f.logger.Warn("couldn't parse robots.txt", "url", robotsURL, "err", err)
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return robots.TestAgent(path, robotsAgent), nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	status, body, err := f.do(ctx, rawURL, true)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("fetch %s: %w: %d", rawURL, ErrUnexpectedStatus, status)
	}
	return body, nil
}

// do performs a GET. Page requests wait on the limiter; robots.txt
// lookups do not.
func (f *Fetcher) do(ctx context.Context, rawURL string, limited bool) (int, []byte, error) {
	if limited {
		if err := f.limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
