// Package wallet submits contract writes on behalf of a single account.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// ErrNoWallet is returned by write paths when no account is configured.
var ErrNoWallet = errors.New("no wallet connected")

// WriteRequest is one state changing contract call.
type WriteRequest struct {
	Contract common.Address
	ABI      abi.ABI
	Method   string
	Args     []any
	// Value is the wei amount sent with the call, nil for none.
	Value *big.Int
}

// Keyed signs with a private key held in memory. Writes are serialised so
// nonces are taken in order.
type Keyed struct {
	mu      sync.Mutex
	backend bind.ContractBackend
	auth    *bind.TransactOpts
	logger  *zap.Logger
}

// NewKeyed parses a hex encoded secp256k1 key.
func NewKeyed(backend bind.ContractBackend, hexKey string, chainID *big.Int, logger *zap.Logger) (*Keyed, error) {
	if backend == nil {
		return nil, errors.New("contract backend is required")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return newKeyed(backend, key, chainID, logger)
}

func newKeyed(backend bind.ContractBackend, key *ecdsa.PrivateKey, chainID *big.Int, logger *zap.Logger) (*Keyed, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	return &Keyed{
		backend: backend,
		auth:    auth,
		logger:  logger.Named("wallet").With(zap.String("address", auth.From.Hex())),
	}, nil
}

// Address returns the signing account.
func (k *Keyed) Address(context.Context) (common.Address, error) {
	return k.auth.From, nil
}

// WriteContract signs and submits req once. Failures are returned as *Error.
func (k *Keyed) WriteContract(ctx context.Context, req WriteRequest) (common.Hash, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	opts := *k.auth
	opts.Context = ctx
	opts.Value = req.Value

	contract := bind.NewBoundContract(req.Contract, req.ABI, k.backend, k.backend, k.backend)
	tx, err := contract.Transact(&opts, req.Method, req.Args...)
	if err != nil {
		category := Classify(err)
		k.logger.Warn("contract write failed",
			zap.String("contract", req.Contract.Hex()),
			zap.String("method", req.Method),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return common.Hash{}, &Error{Category: category, Err: err}
	}

	k.logger.Info("transaction submitted",
		zap.String("contract", req.Contract.Hex()),
		zap.String("method", req.Method),
		zap.String("tx", tx.Hash().Hex()),
	)
	return tx.Hash(), nil
}
