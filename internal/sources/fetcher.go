package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// fetchSleepFunc is swapped out in tests to skip backoff delays
var fetchSleepFunc = sleepContext

// sleepContext waits for d or until ctx ends, whichever comes first
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Fetcher performs JSON-over-HTTP requests for evidence adapters
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	limiter    *worker.Limiter
}

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	Timeout    time.Duration
	UserAgent  string
	MaxBytes   int64
	MaxRetries int
	Limiter    *worker.Limiter
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// NewFetcher creates a new Fetcher with the given options
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 2_000_000
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
		maxRetries: opts.MaxRetries,
		limiter:    opts.Limiter,
	}
}

// NewFetchers builds the primary (search API) and secondary (scrape)
// fetchers from config. Both share the same per-host limiter.
func NewFetchers(cfg *model.Config, limiter *worker.Limiter) (primary, scrape *Fetcher) {
	opts := FetcherOptions{
		Timeout:    cfg.HTTP.Timeout,
		UserAgent:  cfg.HTTP.UserAgent,
		MaxBytes:   cfg.HTTP.MaxBodyBytes,
		MaxRetries: cfg.HTTP.MaxRetries,
		Limiter:    limiter,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}
	primary = NewFetcher(opts)

	opts.Timeout = cfg.HTTP.ScrapeTimeout
	scrape = NewFetcher(opts)
	return primary, scrape
}

// StatusError reports a non-2xx upstream response
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, e.Status)
}

// Unwrap lets callers match the error against model.ErrUpstreamRejected
func (e *StatusError) Unwrap() error {
	return model.ErrUpstreamRejected
}

// Get performs a single GET request and returns the size-capped body
func (f *Fetcher) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	// Take a free token without blocking; wait only when throttled
	if f.limiter != nil && !f.limiter.Allow(rawURL) {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", model.ErrTransport, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("User-Agent", f.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: GET %s: %v", model.ErrTransport, redactQuery(rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", model.ErrTransport, err)
	}

	return body, nil
}

// GetWithRetry performs Get with bounded retries on 429, 5xx and
// transport errors, backing off exponentially between attempts.
func (f *Fetcher) GetWithRetry(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(ctx, backoff(attempt))
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", model.ErrTransport, err)
			}
		}

		body, err := f.Get(ctx, rawURL, header)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// GetJSON fetches rawURL with retries and decodes the body into out
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, header http.Header, out any) error {
	body, err := f.GetWithRetry(ctx, rawURL, header)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", model.ErrMalformedResponse, redactQuery(rawURL), err)
	}
	return nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return errors.Is(err, model.ErrTransport)
}
