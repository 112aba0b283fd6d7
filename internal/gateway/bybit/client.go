package bybit

import (
	"context"
	"sync"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/quantnexus/nexus-trader/internal/gateway"
)

// Config holds the Bybit connection settings.
type Config struct {
	APIKey    string
	APISecret string
	Category  string // "linear" for USDT perpetuals, "spot" for spot
	Testnet   bool
	Demo      bool

	// SlippageCap bounds market-order fills as a fraction of price
	// (0.05 = 5%). Zero disables the exchange-side tolerance.
	SlippageCap float64

	// RequestTimeout bounds each API call so a stalled request cannot
	// keep a strategy task from reaching its sleep point.
	RequestTimeout time.Duration

	// Throttle caps account-wide request rate across all sessions.
	ThrottleCapacity int
	ThrottleRefill   int
}

func (c Config) withDefaults() Config {
	if c.Category == "" {
		c.Category = "linear"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.ThrottleCapacity == 0 {
		c.ThrottleCapacity = 20
	}
	if c.ThrottleRefill == 0 {
		c.ThrottleRefill = 10
	}
	return c
}

// Client wraps the Bybit API client behind the gateway.Session
// contract. One Client is shared by all strategy instances on the same
// account so they draw on a single request throttle; Session hands out
// per-instance views with independent close semantics.
type Client struct {
	httpClient *bybit_api.Client
	config     Config
	throttle   *gateway.Throttle
	retry      retryPolicy
}

// NewClient creates a Bybit client for the configured environment.
func NewClient(config Config) *Client {
	config = config.withDefaults()

	var baseURL string
	if config.Demo {
		baseURL = "https://api-demo.bybit.com"
	} else if config.Testnet {
		baseURL = bybit_api.TESTNET
	} else {
		baseURL = bybit_api.MAINNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	return &Client{
		httpClient: httpClient,
		config:     config,
		throttle:   gateway.NewThrottle(config.ThrottleCapacity, config.ThrottleRefill),
		retry:      defaultRetryPolicy(),
	}
}

// Environment returns a string describing the trading environment.
func (c *Client) Environment() string {
	switch {
	case c.config.Demo:
		return "demo"
	case c.config.Testnet:
		return "testnet"
	default:
		return "mainnet"
	}
}

// NewSession returns a per-strategy-instance session view.
func (c *Client) NewSession() gateway.Session {
	return &session{client: c}
}

// call throttles, bounds and executes one API request, retrying
// transient failures with exponential backoff.
func (c *Client) call(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retry.delay(attempt)):
			}
		}

		if err := c.throttle.Wait(ctx); err != nil {
			return err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}

	return lastErr
}

// session is the per-instance view of the shared client.
type session struct {
	client    *Client
	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

// Close marks the session released. The underlying HTTP client is
// stateless and shared, so there is no connection to tear down, but
// double-close is still guarded to keep the contract honest.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	})
	return nil
}

func (s *session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
