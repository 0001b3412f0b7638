package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/eurekastudio/creative-backend/internal/infrastructure/resilience"
)

// Config tunes a provider client. Retries defaults to zero: a failed
// provider call is terminal for that step and the orchestration layer
// decides whether to degrade.
type Config struct {
	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	RateRPS   float64
}

// Client wraps resty with a circuit breaker and optional client-side rate
// limiting for calls to one upstream provider.
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Breaker *resilience.Breaker
}

// New creates a provider HTTP client named after the provider it fronts.
func New(name string, cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = time.Second
	}

	// Transport-level retries via retryablehttp; disabled unless asked for.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = cfg.RetryWait
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = nil
	// Only transport failures are retryable. The default policy also eats
	// 429/5xx responses, which must instead reach the caller intact so
	// provider error bodies can be parsed and their status passed through.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		return false, nil
	}

	restyClient := resty.New()
	restyClient.
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "CreativeStudio-Backend/1.0").
		SetTransport(&retryablehttp.RoundTripper{Client: retryClient})

	breaker := resilience.New(name, resilience.Settings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			// External AI APIs vary in reliability; trip only on sustained
			// failure: 10+ consecutive, or >70% of 20+ requests.
			return counts.ConsecutiveFailures >= 10 ||
				(counts.Requests >= 20 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.7)
		},
	})

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateRPS), int(cfg.RateRPS))
	}

	return &Client{
		Resty:   restyClient,
		Limiter: limiter,
		Breaker: breaker,
	}
}

// Request creates a new request after passing the breaker and rate limiter.
func (c *Client) Request(ctx context.Context) (*resty.Request, error) {
	if c.Breaker.State() == resilience.StateOpen {
		return nil, resilience.ErrCircuitOpen
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	return c.Resty.R().SetContext(ctx), nil
}

// Execute runs an HTTP operation under circuit breaker protection. Transport
// failures count against the breaker; HTTP error statuses are left to the
// caller since a 4xx from a healthy provider is not an outage.
func (c *Client) Execute(fn func() (*resty.Response, error)) (*resty.Response, error) {
	var resp *resty.Response
	err := c.Breaker.Execute(func() error {
		var callErr error
		resp, callErr = fn()
		return callErr
	})
	if err == resilience.ErrCircuitOpen {
		return nil, fmt.Errorf("provider unavailable: circuit breaker open")
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() resilience.State {
	return c.Breaker.State()
}
