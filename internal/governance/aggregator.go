// Package governance discovers governor proposals from event logs,
// enriches them with live state and submits votes and proposals.
package governance

import (
	"context"
	"errors"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/clock"
	"go.uber.org/zap"
)

// Aggregator is safe for concurrent use. Discovery of a single governor
// is sequential so one request never bursts the upstream provider.
type Aggregator struct {
	chain   Chain
	wallet  Wallet
	metrics Metrics
	sleep   clock.SleepFunc
	logger  *zap.Logger

	window                  uint64
	fallbackWindow          uint64
	maxConsecutiveRateLimit int
	proposalDelay           time.Duration
	rateLimitDelay          time.Duration
	receiptPollInterval     time.Duration
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithWindows sets the primary and fallback log query ranges in blocks.
func WithWindows(window, fallback uint64) Option {
	return func(a *Aggregator) {
		a.window = window
		a.fallbackWindow = fallback
	}
}

// WithDelays sets the pause between proposals and after a rate limit hit.
func WithDelays(proposal, rateLimited time.Duration) Option {
	return func(a *Aggregator) {
		a.proposalDelay = proposal
		a.rateLimitDelay = rateLimited
	}
}

func WithMaxConsecutiveRateLimit(n int) Option {
	return func(a *Aggregator) { a.maxConsecutiveRateLimit = n }
}

func WithReceiptPollInterval(d time.Duration) Option {
	return func(a *Aggregator) { a.receiptPollInterval = d }
}

func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(a *Aggregator) { a.sleep = sleep }
}

// New builds an Aggregator. w may be nil for read only deployments.
func New(chain Chain, w Wallet, metrics Metrics, logger *zap.Logger, opts ...Option) (*Aggregator, error) {
	if chain == nil {
		return nil, errors.New("chain reader is required")
	}
	if metrics == nil {
		return nil, errors.New("governance metrics is required")
	}

	a := &Aggregator{
		chain:                   chain,
		wallet:                  w,
		metrics:                 metrics,
		sleep:                   clock.SleepWithContext,
		logger:                  logger.Named("governance"),
		window:                  defaultWindow,
		fallbackWindow:          defaultFallbackWindow,
		maxConsecutiveRateLimit: defaultMaxConsecutiveRateLimit,
		proposalDelay:           defaultProposalDelay,
		rateLimitDelay:          defaultRateLimitDelay,
		receiptPollInterval:     defaultReceiptPollInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.maxConsecutiveRateLimit <= 0 {
		return nil, errors.New("max consecutive rate limit must be positive")
	}
	return a, nil
}
