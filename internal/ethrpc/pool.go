// Package ethrpc manages the upstream JSON-RPC endpoints.
package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// Pool is an ordered list of endpoints with a shared round-robin cursor.
// Every call goes to the current endpoint; Rotate advances the cursor.
type Pool struct {
	backends   []Backend
	urls       []string
	cursor     atomic.Uint64
	timeout    time.Duration
	retryCount int
	retryDelay time.Duration
	sleep      clock.SleepFunc
	metrics    Metrics
	logger     *zap.Logger
}

// Option customises a Pool.
type Option func(*Pool)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Pool) { p.timeout = d }
}

// WithRetry sets the same-endpoint retry policy for unavailable errors.
func WithRetry(count int, delay time.Duration) Option {
	return func(p *Pool) {
		p.retryCount = count
		p.retryDelay = delay
	}
}

// Dial connects to every URL. Connections are lazy for HTTP endpoints.
func Dial(ctx context.Context, urls []string, metrics Metrics, logger *zap.Logger, opts ...Option) (*Pool, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one rpc url is required")
	}

	backends := make([]Backend, 0, len(urls))
	for _, url := range urls {
		client, err := rpc.DialOptions(ctx, url)
		if err != nil {
			for _, b := range backends {
				b.Close()
			}
			return nil, fmt.Errorf("dial %s: %w", url, err)
		}
		backends = append(backends, ethclient.NewClient(client))
	}

	return NewPool(backends, urls, metrics, logger, opts...)
}

// NewPool wraps already connected backends.
func NewPool(backends []Backend, urls []string, metrics Metrics, logger *zap.Logger, opts ...Option) (*Pool, error) {
	if len(backends) == 0 {
		return nil, errors.New("at least one backend is required")
	}
	if len(urls) != len(backends) {
		return nil, fmt.Errorf("got %d urls for %d backends", len(urls), len(backends))
	}
	if metrics == nil {
		return nil, errors.New("rpc metrics is required")
	}

	p := &Pool{
		backends:   backends,
		urls:       urls,
		timeout:    defaultTimeout,
		retryCount: defaultRetryCount,
		retryDelay: defaultRetryDelay,
		sleep:      clock.SleepWithContext,
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Len returns the number of endpoints.
func (p *Pool) Len() int {
	return len(p.backends)
}

// Index returns the position of the current endpoint.
func (p *Pool) Index() int {
	return int(p.cursor.Load() % uint64(len(p.backends)))
}

// URL returns the current endpoint URL.
func (p *Pool) URL() string {
	return p.urls[p.Index()]
}

// Rotate advances to the next endpoint and returns its index.
func (p *Pool) Rotate() int {
	next := int(p.cursor.Add(1) % uint64(len(p.backends)))
	p.logger.Info("switching rpc endpoint", zap.Int("index", next), zap.String("url", p.urls[next]))
	return next
}

// Close releases every backend.
func (p *Pool) Close() {
	for _, b := range p.backends {
		b.Close()
	}
}

// BlockNumber returns the most recent block number.
func (p *Pool) BlockNumber(ctx context.Context) (uint64, error) {
	return call(ctx, p, "block_number", func(ctx context.Context, b Backend) (uint64, error) {
		return b.BlockNumber(ctx)
	})
}

// ChainID returns the chain id reported by the current endpoint.
func (p *Pool) ChainID(ctx context.Context) (*big.Int, error) {
	return call(ctx, p, "chain_id", func(ctx context.Context, b Backend) (*big.Int, error) {
		return b.ChainID(ctx)
	})
}

// CallContract executes an eth_call.
func (p *Pool) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return call(ctx, p, "call_contract", func(ctx context.Context, b Backend) ([]byte, error) {
		return b.CallContract(ctx, msg, blockNumber)
	})
}

// CodeAt returns the contract code of the given account.
func (p *Pool) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return call(ctx, p, "code_at", func(ctx context.Context, b Backend) ([]byte, error) {
		return b.CodeAt(ctx, account, blockNumber)
	})
}

// FilterLogs executes an eth_getLogs query.
func (p *Pool) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return call(ctx, p, "filter_logs", func(ctx context.Context, b Backend) ([]types.Log, error) {
		return b.FilterLogs(ctx, q)
	})
}

// HeaderByNumber returns a block header; nil number means latest.
func (p *Pool) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return call(ctx, p, "header_by_number", func(ctx context.Context, b Backend) (*types.Header, error) {
		return b.HeaderByNumber(ctx, number)
	})
}

// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
func (p *Pool) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return call(ctx, p, "transaction_receipt", func(ctx context.Context, b Backend) (*types.Receipt, error) {
		return b.TransactionReceipt(ctx, txHash)
	})
}

// Healthy reports whether the current endpoint answers eth_blockNumber.
func (p *Pool) Healthy(ctx context.Context) error {
	_, err := p.BlockNumber(ctx)
	return err
}

func call[T any](ctx context.Context, p *Pool, operation string, fn func(context.Context, Backend) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		idx := p.Index()
		res, err := once(ctx, p, idx, operation, fn)
		if err == nil {
			return res, nil
		}
		if attempt >= p.retryCount || !IsUnavailable(err) || ctx.Err() != nil {
			return zero, err
		}
		p.logger.Debug("rpc endpoint unavailable, retrying",
			zap.String("operation", operation),
			zap.Int("endpoint", idx),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		if sleepErr := p.sleep(ctx, p.retryDelay); sleepErr != nil {
			return zero, sleepErr
		}
	}
}

func once[T any](ctx context.Context, p *Pool, idx int, operation string, fn func(context.Context, Backend) (T, error)) (res T, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(operation, idx, err, started)
	}()

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return fn(callCtx, p.backends[idx])
}
