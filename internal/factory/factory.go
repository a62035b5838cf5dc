// Package factory deploys new communities through the community factory
// contract.
package factory

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/clock"
	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const defaultPollInterval = 2 * time.Second

var (
	ErrNameRequired        = errors.New("community name is required")
	ErrSymbolRequired      = errors.New("nft symbol is required")
	ErrInvalidVotingPeriod = errors.New("voting period must be positive")
	ErrDeploymentFailed    = errors.New("community deployment reverted")
	ErrNoDeploymentEvent   = errors.New("receipt has no CommunityCreated event")
)

type Factory struct {
	address      common.Address
	receipts     Receipts
	wallet       Wallet
	sleep        clock.SleepFunc
	pollInterval time.Duration
	logger       *zap.Logger
}

type Option func(*Factory)

func WithPollInterval(d time.Duration) Option {
	return func(f *Factory) { f.pollInterval = d }
}

func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(f *Factory) { f.sleep = sleep }
}

func New(address common.Address, receipts Receipts, w Wallet, logger *zap.Logger, opts ...Option) (*Factory, error) {
	if address == (common.Address{}) {
		return nil, errors.New("factory address is required")
	}
	if receipts == nil {
		return nil, errors.New("receipt reader is required")
	}
	if w == nil {
		return nil, wallet.ErrNoWallet
	}

	f := &Factory{
		address:      address,
		receipts:     receipts,
		wallet:       w,
		sleep:        clock.SleepWithContext,
		pollInterval: defaultPollInterval,
		logger:       logger.Named("factory").With(zap.String("factory", address.Hex())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func validate(cfg model.DeploymentConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(cfg.Symbol) == "" {
		return ErrSymbolRequired
	}
	if cfg.VotingPeriod == 0 {
		return ErrInvalidVotingPeriod
	}
	return nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// CreateCommunity submits createCommunity. A zero creator is replaced by
// the wallet address.
func (f *Factory) CreateCommunity(ctx context.Context, cfg model.DeploymentConfig) (common.Hash, error) {
	if err := validate(cfg); err != nil {
		return common.Hash{}, err
	}
	if cfg.Creator == (common.Address{}) {
		addr, err := f.wallet.Address(ctx)
		if err != nil {
			return common.Hash{}, fmt.Errorf("wallet address: %w", err)
		}
		cfg.Creator = addr
	}

	arg := contracts.DeploymentConfig{
		Name:              cfg.Name,
		Symbol:            cfg.Symbol,
		BaseURI:           cfg.BaseURI,
		Creator:           cfg.Creator,
		MaxSupply:         orZero(cfg.MaxSupply),
		VotingDelay:       orZero(cfg.VotingDelay),
		VotingPeriod:      cfg.VotingPeriod,
		ProposalThreshold: orZero(cfg.ProposalThreshold),
		QuorumNumerator:   orZero(cfg.QuorumNumerator),
		DeployTimelock:    cfg.DeployTimelock,
		MetadataURI:       cfg.MetadataURI,
	}
	hash, err := f.wallet.WriteContract(ctx, wallet.WriteRequest{
		Contract: f.address,
		ABI:      contracts.FactoryABI,
		Method:   "createCommunity",
		Args:     []any{arg},
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("create community: %w", err)
	}
	f.logger.Info("community deployment submitted",
		zap.String("name", cfg.Name),
		zap.String("creator", cfg.Creator.Hex()),
		zap.String("tx", hash.Hex()),
	)
	return hash, nil
}

// AwaitDeployment waits for hash to be mined and decodes the deployed
// addresses from its CommunityCreated event.
func (f *Factory) AwaitDeployment(ctx context.Context, hash common.Hash) (model.Deployment, error) {
	receipt, err := f.awaitReceipt(ctx, hash)
	if err != nil {
		return model.Deployment{}, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return model.Deployment{}, fmt.Errorf("%w: %s", ErrDeploymentFailed, hash.Hex())
	}
	ev, ok := contracts.FindCommunityCreated(receipt.Logs)
	if !ok {
		return model.Deployment{}, fmt.Errorf("%w: %s", ErrNoDeploymentEvent, hash.Hex())
	}
	return model.Deployment{
		TxHash:      hash,
		CommunityID: ev.CommunityId,
		Creator:     ev.Creator,
		NFT:         ev.Nft,
		Governor:    ev.Governor,
		Timelock:    ev.Timelock,
	}, nil
}

// Deploy creates a community and waits for its addresses.
func (f *Factory) Deploy(ctx context.Context, cfg model.DeploymentConfig) (model.Deployment, error) {
	hash, err := f.CreateCommunity(ctx, cfg)
	if err != nil {
		return model.Deployment{}, err
	}
	return f.AwaitDeployment(ctx, hash)
}

func (f *Factory) awaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	for {
		receipt, err := f.receipts.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("receipt of %s: %w", hash.Hex(), err)
		}
		if err := f.sleep(ctx, f.pollInterval); err != nil {
			return nil, err
		}
	}
}
