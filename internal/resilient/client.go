// Package resilient executes upstream reads with caching, retries and
// endpoint rotation.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/cache"
	internalclock "github.com/Tribo-Hackathon/Tribo/internal/clock"
	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
	"github.com/benbjohnson/clock"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// Client is shared by every reader. The store and the rotator are the
// only mutable state.
type Client struct {
	store   cache.Store
	rotator Rotator
	policy  Policy
	ttl     time.Duration
	pacing  time.Duration
	clock   clock.Clock
	sleep   internalclock.SleepFunc
	metrics Metrics
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithPacing sets the minimum interval between calls of a batch.
// Zero disables pacing.
func WithPacing(d time.Duration) Option {
	return func(c *Client) { c.pacing = d }
}

// WithClock sets the clock used by batch limiters.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// WithSleep replaces the backoff sleep.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// New builds a Client.
func New(store cache.Store, rotator Rotator, metrics Metrics, logger *zap.Logger, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("cache store is required")
	}
	if rotator == nil {
		return nil, errors.New("endpoint rotator is required")
	}
	if metrics == nil {
		return nil, errors.New("resilient client metrics is required")
	}

	c := &Client{
		store:   store,
		rotator: rotator,
		policy:  DefaultPolicy(),
		ttl:     defaultTTL,
		pacing:  defaultBatchPacing,
		clock:   clock.New(),
		sleep:   internalclock.SleepWithContext,
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Policy returns the retry policy in use.
func (c *Client) Policy() Policy {
	return c.policy
}

// NewLimiter returns a limiter spacing successive Take calls by the
// configured pacing.
func (c *Client) NewLimiter() ratelimit.Limiter {
	if c.pacing <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(1, ratelimit.Per(c.pacing), ratelimit.WithClock(c.clock), ratelimit.WithoutSlack)
}

// Invalidate drops every cached entry whose key starts with prefix.
func (c *Client) Invalidate(ctx context.Context, prefix string) error {
	deleted, err := c.store.DeletePrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("invalidate %s: %w", prefix, err)
	}
	c.logger.Debug("cache invalidated", zap.String("prefix", prefix), zap.Int("entries", deleted))
	return nil
}

// Clear drops the whole cache.
func (c *Client) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Stats reports the cache content.
func (c *Client) Stats(ctx context.Context) (cache.Stats, error) {
	return c.store.Stats(ctx)
}

func (c *Client) retryReason(err error) string {
	return ethrpc.Classify(err).String()
}
