package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/worker"
)

func newTestFetcher(retries int) *Fetcher {
	return NewFetcher(FetcherOptions{
		Timeout:    5 * time.Second,
		UserAgent:  "test-agent",
		MaxBytes:   1 << 20,
		MaxRetries: retries,
	})
}

func noSleep(t *testing.T) {
	t.Helper()
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(ctx context.Context, d time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = origSleep })
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected User-Agent test-agent, got %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"ok": true}`)
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := newTestFetcher(3).GetJSON(context.Background(), server.URL, nil, &out); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !out.OK {
		t.Error("Expected decoded ok=true")
	}
}

func TestGetWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()
	noSleep(t)

	if _, err := newTestFetcher(3).GetWithRetry(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestGetWithRetry_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	noSleep(t)

	_, err := newTestFetcher(3).GetWithRetry(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	// 404 is not retryable, so should fail immediately
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts.Load())
	}
	if !errors.Is(err, model.ErrUpstreamRejected) {
		t.Errorf("Expected ErrUpstreamRejected, got %v", err)
	}
	if got := err.Error(); got != "unexpected status: 404 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
}

func TestGetWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	noSleep(t)

	_, err := newTestFetcher(3).GetWithRetry(context.Background(), server.URL, nil)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestGetWithRetry_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()
	noSleep(t)

	if _, err := newTestFetcher(3).GetWithRetry(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestGetWithRetry_BackoffGrows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var delays []time.Duration
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(ctx context.Context, d time.Duration) { delays = append(delays, d) }
	defer func() { fetchSleepFunc = origSleep }()

	_, _ = newTestFetcher(3).GetWithRetry(context.Background(), server.URL, nil)

	if len(delays) != 2 {
		t.Fatalf("Expected 2 backoff sleeps, got %d", len(delays))
	}
	if delays[1] <= delays[0] {
		t.Errorf("Expected growing backoff, got %v", delays)
	}
}

func TestGetJSON_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	var out map[string]any
	err := newTestFetcher(1).GetJSON(context.Background(), server.URL+"?key=secret", nil, &out)
	if !errors.Is(err, model.ErrMalformedResponse) {
		t.Fatalf("Expected ErrMalformedResponse, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("Expected query string redacted from error, got %v", err)
	}
}

func TestGet_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	noSleep(t)

	_, err := newTestFetcher(2).GetWithRetry(context.Background(), url+"?key=secret", nil)
	if !errors.Is(err, model.ErrTransport) {
		t.Fatalf("Expected ErrTransport, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("Expected query string redacted from error, got %v", err)
	}
}

func TestGet_BodyCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 100))
	}))
	defer server.Close()

	f := NewFetcher(FetcherOptions{Timeout: 5 * time.Second, UserAgent: "t", MaxBytes: 10})
	body, err := f.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(body) != 10 {
		t.Errorf("Expected body capped at 10 bytes, got %d", len(body))
	}
}

func TestGet_RateLimitedContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	limiter := worker.NewLimiter(0.001, 1)
	f := NewFetcher(FetcherOptions{Timeout: 5 * time.Second, UserAgent: "t", Limiter: limiter})

	if _, err := f.Get(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("First request should pass the limiter, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Get(ctx, server.URL, nil); !errors.Is(err, model.ErrTransport) {
		t.Errorf("Expected ErrTransport from limiter wait, got %v", err)
	}
}

func TestGetWithRetry_CancelInterruptsBackoff(t *testing.T) {
	var calls int
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		cancel()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	start := time.Now()
	_, err := newTestFetcher(3).GetWithRetry(ctx, server.URL, nil)
	if err == nil {
		t.Fatal("Expected error after cancellation")
	}
	if d := time.Since(start); d >= 400*time.Millisecond {
		t.Errorf("Expected backoff to end with the context, took %v", d)
	}
	if calls != 1 {
		t.Errorf("Expected 1 request, got %d", calls)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, 5*time.Second)
	if d := time.Since(start); d > time.Second {
		t.Errorf("Expected cancelled context to end the sleep, took %v", d)
	}

	start = time.Now()
	sleepContext(context.Background(), 20*time.Millisecond)
	if d := time.Since(start); d < 20*time.Millisecond {
		t.Errorf("Expected full sleep, took %v", d)
	}
}
