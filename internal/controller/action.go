package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrActionInFlight rejects a second submission of the same action.
var ErrActionInFlight = errors.New("a submission is already in progress")

// ActionResult is the outcome of a submitted transaction.
type ActionResult struct {
	TxHash   common.Hash `json:"txHash"`
	Category Category    `json:"category,omitempty"`
	Message  string      `json:"message,omitempty"`
	Err      error       `json:"-"`
}

// Actions guards writes per key so a double submit cannot send a second
// vote or proposal. Writes are never retried.
type Actions struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	logger   *zap.Logger
}

func NewActions(logger *zap.Logger) *Actions {
	return &Actions{
		inFlight: make(map[string]struct{}),
		logger:   logger.Named("actions"),
	}
}

// Submit runs submit unless another submission for key is running.
func (a *Actions) Submit(ctx context.Context, key string, submit func(context.Context) (common.Hash, error)) ActionResult {
	a.mu.Lock()
	if _, busy := a.inFlight[key]; busy {
		a.mu.Unlock()
		return failed(ErrActionInFlight)
	}
	a.inFlight[key] = struct{}{}
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inFlight, key)
		a.mu.Unlock()
	}()

	hash, err := submit(ctx)
	if err != nil {
		a.logger.Info("action failed", zap.String("action", key), zap.Error(err))
		return failed(err)
	}
	return ActionResult{TxHash: hash}
}

func failed(err error) ActionResult {
	return ActionResult{
		Category: Categorize(err),
		Message:  Message(err, defaultCooldown),
		Err:      err,
	}
}
