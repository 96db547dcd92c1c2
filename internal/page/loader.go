package page

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pfrederiksen/matchday-index/internal/logger"
)

const (
	UserAgent = "matchday-index/1.0 (github.com/pfrederiksen/matchday-index)"
	Timeout   = 30 * time.Second
)

// Loader fetches and parses a page.
type Loader interface {
	Load(ctx context.Context, url string) (*Document, error)
}

// FetchError reports that a page could not be retrieved or parsed.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPLoader loads pages over HTTP
type HTTPLoader struct {
	client    *http.Client
	userAgent string
	layout    Layout
}

// Option configures an HTTPLoader
type Option func(*HTTPLoader)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) Option {
	return func(l *HTTPLoader) {
		l.client = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(l *HTTPLoader) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// WithLayout sets the role selectors used by loaded documents.
func WithLayout(layout Layout) Option {
	return func(l *HTTPLoader) {
		l.layout = layout
	}
}

// NewHTTPLoader creates a loader with a 30 second timeout and DefaultLayout.
func NewHTTPLoader(opts ...Option) *HTTPLoader {
	l := &HTTPLoader{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
		layout:    DefaultLayout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches url and parses the response body as HTML. Every failure is returned
// as a *FetchError.
func (l *HTTPLoader) Load(ctx context.Context, url string) (*Document, error) {
	start := time.Now()
	defer func() {
		logger.RecordTiming("page.fetch", time.Since(start))
	}()

	doc, err := l.load(ctx, url)
	if err != nil {
		logger.IncrCounter("pages.failed")
		return nil, err
	}

	logger.IncrCounter("pages.fetched")
	logger.Debug("Loaded page", logger.Fields{"url": url})
	return doc, nil
}

func (l *HTTPLoader) load(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	// Relative links resolve against the page that was served, after redirects
	doc, err := Parse(resp.Body, resp.Request.URL.String(), l.layout)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return doc, nil
}
