package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Default client settings.
const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBodySize limits how much of a response body is read.
	// Raw address histories of busy addresses can be large.
	DefaultMaxBodySize = 32 * 1024 * 1024
)

// Progress receives user-facing notices about failed attempts.
// Implementations must be safe for concurrent use.
type Progress interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// nopProgress discards notices.
type nopProgress struct{}

func (nopProgress) Warnf(string, ...any)  {}
func (nopProgress) Errorf(string, ...any) {}

// Client fetches URLs with retry and identity rotation.
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	// clients holds one HTTP client per identity, sharing a transport.
	clients []*http.Client

	// identities is parallel to clients.
	identities []Identity

	policy      RetryPolicy
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
	progress    Progress
}

// config collects options before the Client is assembled.
type config struct {
	transport   http.RoundTripper
	identities  []Identity
	policy      RetryPolicy
	timeout     time.Duration
	maxBodySize int64
	logger      *slog.Logger
	progress    Progress
}

// Option configures a Client.
type Option func(*config)

// WithTransport sets the base transport shared by all identities.
// Use it to route requests through a SOCKS5 proxy.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

// WithIdentities replaces the default transport identities.
// An empty slice keeps the defaults.
func WithIdentities(ids []Identity) Option {
	return func(c *config) {
		if len(ids) > 0 {
			c.identities = ids
		}
	}
}

// WithPolicy sets the retry policy.
func WithPolicy(p RetryPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		c.maxBodySize = n
	}
}

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithProgress sets the sink for user-facing attempt failure notices.
func WithProgress(p Progress) Option {
	return func(c *config) {
		c.progress = p
	}
}

// NewClient creates a Client. Without options it uses the default
// transport, four identities, DefaultRetryPolicy and DefaultTimeout.
func NewClient(opts ...Option) *Client {
	cfg := &config{
		transport:   http.DefaultTransport,
		identities:  DefaultIdentities(),
		policy:      DefaultRetryPolicy(),
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.progress == nil {
		cfg.progress = nopProgress{}
	}
	if cfg.timeout <= 0 {
		cfg.timeout = DefaultTimeout
	}
	if cfg.maxBodySize <= 0 {
		cfg.maxBodySize = DefaultMaxBodySize
	}

	c := &Client{
		identities:  cfg.identities,
		policy:      cfg.policy.normalize(),
		timeout:     cfg.timeout,
		maxBodySize: cfg.maxBodySize,
		logger:      cfg.logger,
		progress:    cfg.progress,
	}
	for _, id := range cfg.identities {
		c.clients = append(c.clients, &http.Client{
			Transport: &identityTransport{base: cfg.transport, identity: id},
			Timeout:   cfg.timeout,
		})
	}
	return c
}

// Policy returns the retry policy in use.
func (c *Client) Policy() RetryPolicy {
	return c.policy
}

// Fetch performs a GET of url and returns the body of the first HTTP 200
// response. When every attempt fails it returns an *Error matching
// ErrNoData. Failed attempts are reported through the Progress sink.
//
// Cancelling ctx aborts the current attempt and stops further attempts.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	attempts := 0
	for attempts < c.policy.Attempts {
		attempts++

		idx := c.policy.Select(len(c.clients))
		data, err := c.attempt(ctx, c.clients[idx], url)
		if err == nil {
			c.logger.Debug("fetch succeeded",
				"url", url,
				"attempt", attempts,
				"identity", c.identities[idx].Name,
				"bytes", len(data),
			)
			return data, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			c.progress.Warnf("API response code %d for URL: %s", statusErr.Code, url)
		} else {
			c.progress.Errorf("Error fetching URL %s: %v", url, err)
		}
		c.logger.Debug("fetch attempt failed",
			"url", url,
			"attempt", attempts,
			"identity", c.identities[idx].Name,
			"error", err,
		)

		if attempts >= c.policy.Attempts {
			break
		}
		if err := c.policy.wait(ctx); err != nil {
			lastErr = err
			break
		}
	}

	return nil, &Error{URL: url, Attempts: attempts, Cause: lastErr}
}

// attempt performs one GET with the given identity client.
func (c *Client) attempt(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
