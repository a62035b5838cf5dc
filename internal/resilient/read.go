package resilient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type readOptions struct {
	operation string
	ttl       time.Duration
	once      bool
}

// ReadOption customises a single read.
type ReadOption func(*readOptions)

// WithOperation labels the read in metrics and logs.
func WithOperation(name string) ReadOption {
	return func(o *readOptions) { o.operation = name }
}

// WithReadTTL overrides the client ttl for one key.
func WithReadTTL(ttl time.Duration) ReadOption {
	return func(o *readOptions) { o.ttl = ttl }
}

// WithoutRetry makes a cache miss cost a single upstream attempt.
func WithoutRetry() ReadOption {
	return func(o *readOptions) { o.once = true }
}

// Call is one element of a batch.
type Call[T any] struct {
	Key       string
	Operation string
	Fn        func(context.Context) (T, error)
}

// Read returns a live cached value for key or runs call through Do and
// caches the result. Values are stored JSON encoded.
func Read[T any](ctx context.Context, c *Client, key string, call func(context.Context) (T, error), opts ...ReadOption) (T, error) {
	o := readOptions{operation: defaultOperation, ttl: c.ttl}
	for _, opt := range opts {
		opt(&o)
	}

	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			c.metrics.ObserveCache(o.operation, true)
			return cached, nil
		}
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
	}
	c.metrics.ObserveCache(o.operation, false)

	var res T
	if o.once {
		res, err = once(ctx, c, o.operation, call)
	} else {
		res, err = Do(ctx, c, o.operation, call)
	}
	if err != nil {
		return res, err
	}

	encoded, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("result not cacheable", zap.String("key", key), zap.Error(err))
		return res, nil
	}
	if err := c.store.Set(ctx, key, encoded, o.ttl); err != nil {
		c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

// Do runs call with the client's retry policy and no caching. Each
// retryable failure rotates the endpoint before the backoff sleep; the
// last error is returned once retries are exhausted.
func Do[T any](ctx context.Context, c *Client, operation string, call func(context.Context) (T, error)) (res T, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()

	var zero T
	for attempt := 0; ; attempt++ {
		res, err = call(ctx)
		if err == nil {
			return res, nil
		}
		if !c.policy.retryable(err) {
			return zero, err
		}

		reason := c.retryReason(err)
		endpoint := c.rotator.Rotate()
		c.metrics.ObserveRetry(operation, reason)
		if attempt >= c.policy.MaxRetries {
			c.logger.Warn("retries exhausted",
				zap.String("operation", operation),
				zap.Int("attempts", attempt+1),
				zap.Error(err),
			)
			return zero, err
		}

		delay := c.policy.Backoff(attempt)
		c.logger.Debug("retrying read",
			zap.String("operation", operation),
			zap.String("reason", reason),
			zap.Int("endpoint", endpoint),
			zap.Duration("backoff", delay),
		)
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}
}

func once[T any](ctx context.Context, c *Client, operation string, call func(context.Context) (T, error)) (res T, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()
	return call(ctx)
}

// BatchRead runs calls one after another, paced by a token bucket, and
// stops at the first error.
func BatchRead[T any](ctx context.Context, c *Client, calls []Call[T]) ([]T, error) {
	limiter := c.NewLimiter()
	out := make([]T, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		limiter.Take()

		var opts []ReadOption
		if call.Operation != "" {
			opts = append(opts, WithOperation(call.Operation))
		}
		res, err := Read(ctx, c, call.Key, call.Fn, opts...)
		if err != nil {
			return nil, fmt.Errorf("batch read %s: %w", call.Key, err)
		}
		out = append(out, res)
	}
	return out, nil
}
