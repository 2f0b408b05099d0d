// Package gateway holds the HTTP clients for the three upstreams: the
// NOMIS API, the DPS API and the mapping service. Every call is wrapped in
// the retry policy and a per-upstream circuit breaker, so errors reaching
// the usecase layer are permanent.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"prisoner-finance-recon/internal/usecase"
)

// RetryPolicy is the explicit retry contract shared by every client.
// Constructed once from config and passed into each constructor; there is
// no ambient or global retry state.
type RetryPolicy struct {
	MaxAttempts         uint64
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	RandomizationFactor float64
}

// DefaultRetryPolicy matches the upstream guidance: up to 3 attempts with
// jittered exponential backoff starting at 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:         3,
		InitialInterval:     100 * time.Millisecond,
		MaxInterval:         2 * time.Second,
		RandomizationFactor: 0.5,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.RandomizationFactor = p.RandomizationFactor
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, attempts-1), ctx)
}

// apiClient is the shared plumbing: one http.Client, one circuit breaker
// and one retry policy per upstream.
type apiClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	retry      RetryPolicy
	log        *zap.Logger
}

func newAPIClient(name, baseURL string, timeout time.Duration, retry RetryPolicy, log *zap.Logger) *apiClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A 404 is an answer from a healthy upstream, not a failure; a
		// run over mostly-unmapped transactions must not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, usecase.ErrNotFound)
		},
	})
	return &apiClient{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
		retry:   retry,
		log:     log.With(zap.String("component", name)),
	}
}

// getJSON performs a GET with retries and decodes the body into out. A 404
// maps to usecase.ErrNotFound and is never retried; other 4xx responses
// are permanent failures; 5xx and transport errors are retried until the
// policy is exhausted.
func (c *apiClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	operation := func() error {
		_, err := c.breaker.Execute(func() (any, error) {
			return nil, c.doOnce(ctx, path, query, out)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(fmt.Errorf("%s circuit open: %w", c.name, err))
		}
		return err
	}
	if err := backoff.Retry(operation, c.retry.backOff(ctx)); err != nil {
		return fmt.Errorf("%s GET %s: %w", c.name, path, err)
	}
	return nil
}

func (c *apiClient) doOnce(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return backoff.Permanent(usecase.ErrNotFound)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return backoff.Permanent(fmt.Errorf("status %d: %s", resp.StatusCode, body))
	default:
		io.Copy(io.Discard, resp.Body)
		c.log.Warn("retryable upstream failure", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("status %d", resp.StatusCode)
	}
}
