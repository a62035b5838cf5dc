// Package chain exposes typed, cached reads of the creator DAO contracts.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/resilient"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Reader runs contract calls through the resilient client. Every view
// call is cached under a key derived from the contract address, the
// method and its arguments.
type Reader struct {
	client    *resilient.Client
	transport Transport
	logger    *zap.Logger
}

func NewReader(client *resilient.Client, transport Transport, logger *zap.Logger) (*Reader, error) {
	if client == nil {
		return nil, errors.New("resilient client is required")
	}
	if transport == nil {
		return nil, errors.New("transport is required")
	}
	return &Reader{
		client:    client,
		transport: transport,
		logger:    logger,
	}, nil
}

// Client returns the resilient client the reader is bound to.
func (r *Reader) Client() *resilient.Client {
	return r.client
}

// Invalidate drops cached reads under prefix.
func (r *Reader) Invalidate(ctx context.Context, prefix string) error {
	return r.client.Invalidate(ctx, prefix)
}

// BlockNumber is never cached.
func (r *Reader) BlockNumber(ctx context.Context) (uint64, error) {
	return resilient.Do(ctx, r.client, "block_number", r.transport.BlockNumber)
}

// headHintTTL is about one block on the target chains.
const headHintTTL = 2 * time.Second

// BlockNumberHint returns a recent head for advisory fields. A miss costs
// one upstream attempt and the value is shared for headHintTTL.
func (r *Reader) BlockNumberHint(ctx context.Context) (uint64, error) {
	return resilient.Read(ctx, r.client, "block:head", r.transport.BlockNumber,
		resilient.WithOperation("block_number_hint"),
		resilient.WithReadTTL(headHintTTL),
		resilient.WithoutRetry(),
	)
}

// BlockTime returns the timestamp of block n.
func (r *Reader) BlockTime(ctx context.Context, n uint64) (uint64, error) {
	key := fmt.Sprintf("block:%d:time", n)
	return resilient.Read(ctx, r.client, key, func(ctx context.Context) (uint64, error) {
		header, err := r.transport.HeaderByNumber(ctx, new(big.Int).SetUint64(n))
		if err != nil {
			return 0, err
		}
		return header.Time, nil
	}, resilient.WithOperation("block_time"))
}

// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
func (r *Reader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return resilient.Do(ctx, r.client, "transaction_receipt", func(ctx context.Context) (*types.Receipt, error) {
		return r.transport.TransactionReceipt(ctx, hash)
	})
}

func (r *Reader) call(ctx context.Context, parsed abi.ABI, addr common.Address, method string, args ...any) ([]any, error) {
	contract := bind.NewBoundContract(addr, parsed, r.transport, nil, nil)
	var out []any
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func callOne[T any](ctx context.Context, r *Reader, parsed abi.ABI, addr common.Address, method string, args ...any) (T, error) {
	var zero T
	out, err := r.call(ctx, parsed, addr, method, args...)
	if err != nil {
		return zero, err
	}
	if len(out) == 0 {
		return zero, fmt.Errorf("%s returned no values", method)
	}
	if v, ok := out[0].(T); ok {
		return v, nil
	}
	return *abi.ConvertType(out[0], new(T)).(*T), nil
}

// view is a cached single value contract call.
func view[T any](ctx context.Context, r *Reader, key, operation string, parsed abi.ABI, addr common.Address, method string, args ...any) (T, error) {
	return resilient.Read(ctx, r.client, key, func(ctx context.Context) (T, error) {
		return callOne[T](ctx, r, parsed, addr, method, args...)
	}, resilient.WithOperation(operation))
}
