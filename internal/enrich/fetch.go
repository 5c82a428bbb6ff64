package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ebikeratings/ebikerank/internal/cache"
)

// DefaultUserAgent is sent with every review page request.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ebikerank/1.0; +https://github.com/ebikeratings/ebikerank)"

// DefaultMaxBytes caps the size of a fetched page.
const DefaultMaxBytes = 2 << 20

// ErrTooLarge is returned for pages above the size cap.
var ErrTooLarge = errors.New("response too large")

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
	// Rate is the number of requests per second across all hosts.
	// Zero means one per second.
	Rate   float64
	Cache  *cache.Cache
	Logger *slog.Logger
}

type fetched struct {
	body string
	err  error
}

// Fetcher downloads review pages. Results, failures included, are kept in
// memory for the life of the Fetcher; successful pages also go to the disk
// cache when one is configured.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	limiter   *rate.Limiter
	disk      *cache.Cache
	logger    *slog.Logger

	mu  sync.Mutex
	mem map[string]fetched
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Rate <= 0 {
		opts.Rate = 1
	}
	if opts.Cache == nil {
		opts.Cache = cache.New("")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Fetcher{
		client:    opts.Client,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
		limiter:   rate.NewLimiter(rate.Limit(opts.Rate), 1),
		disk:      opts.Cache,
		logger:    opts.Logger,
		mem:       make(map[string]fetched),
	}
}

// Fetch returns the body of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	r, ok := f.mem[url]
	f.mu.Unlock()
	if ok {
		return r.body, r.err
	}

	key := cache.Key(url)
	if e, ok := f.disk.Get(key); ok {
		f.remember(url, e.Body, nil)
		return e.Body, nil
	}

	body, err := f.get(ctx, url)
	if ctx.Err() != nil {
		// Do not remember a cancelled request as a failure.
		return "", ctx.Err()
	}
	f.remember(url, body, err)
	if err != nil {
		f.logger.Warn("could not fetch review page", "url", url, "error", err)
		return "", err
	}
	if err := f.disk.Put(key, &cache.Entry{URL: url, Status: http.StatusOK, Body: body}); err != nil {
		f.logger.Warn("caching review page", "url", url, "error", err)
	}
	return body, nil
}

func (f *Fetcher) remember(url, body string, err error) {
	f.mu.Lock()
	f.mem[url] = fetched{body: body, err: err}
	f.mu.Unlock()
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > f.maxBytes {
		return "", fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxBytes)
	}
	return string(data), nil
}
