package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tribo-Hackathon/Tribo/internal/cache"
	"github.com/Tribo-Hackathon/Tribo/internal/chain"
	"github.com/Tribo-Hackathon/Tribo/internal/community"
	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
	"github.com/Tribo-Hackathon/Tribo/internal/factory"
	"github.com/Tribo-Hackathon/Tribo/internal/governance"
	"github.com/Tribo-Hackathon/Tribo/internal/metrics"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/registry"
	"github.com/Tribo-Hackathon/Tribo/internal/resilient"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Wallet signs and sends contract writes.
type Wallet interface {
	Address(ctx context.Context) (common.Address, error)
	WriteContract(ctx context.Context, req wallet.WriteRequest) (common.Hash, error)
}

// Stack holds the readers every binary uses. Wallet is nil in read only
// deployments.
type Stack struct {
	Network     model.Network
	Pool        *ethrpc.Pool
	Client      *resilient.Client
	Chain       *chain.Reader
	Registry    *registry.Reader
	Communities *community.Reader
	Governance  *governance.Aggregator
	Wallet      Wallet

	cfg     ChainConfig
	closers []func()
	logger  *zap.Logger
}

// Build dials the endpoints and assembles the readers.
func Build(ctx context.Context, cfg ChainConfig, logger *zap.Logger) (_ *Stack, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	network := cfg.network()
	s := &Stack{Network: network, cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	s.Pool, err = ethrpc.Dial(ctx, cfg.RPCURLs, metrics.NewRPCClient(network), logger.Named("rpc"), ethrpc.WithTimeout(cfg.RPCTimeout))
	if err != nil {
		return nil, fmt.Errorf("dial rpc endpoints: %w", err)
	}
	s.closers = append(s.closers, s.Pool.Close)

	store, err := s.cacheStore(ctx)
	if err != nil {
		return nil, err
	}

	s.Client, err = resilient.New(store, s.Pool, metrics.NewResilientClient(network), logger.Named("resilient"), resilient.WithTTL(cfg.CacheTTL))
	if err != nil {
		return nil, fmt.Errorf("build resilient client: %w", err)
	}
	s.Chain, err = chain.NewReader(s.Client, s.Pool, logger.Named("chain"))
	if err != nil {
		return nil, fmt.Errorf("build chain reader: %w", err)
	}

	if cfg.PrivateKey != "" {
		if s.Wallet, err = s.keyedWallet(ctx); err != nil {
			return nil, err
		}
	}

	s.Registry, err = registry.NewReader(s.Chain, common.HexToAddress(cfg.RegistryAddress), logger)
	if err != nil {
		return nil, fmt.Errorf("build registry reader: %w", err)
	}
	s.Communities, err = community.NewReader(s.Chain, s.Registry, s.Client, s.Wallet, logger)
	if err != nil {
		return nil, fmt.Errorf("build community reader: %w", err)
	}
	s.Governance, err = governance.New(s.Chain, s.Wallet, metrics.NewGovernance(network), logger)
	if err != nil {
		return nil, fmt.Errorf("build governance aggregator: %w", err)
	}
	return s, nil
}

// Factory returns a community deployer. It needs a wallet and a factory
// address.
func (s *Stack) Factory() (*factory.Factory, error) {
	if s.cfg.FactoryAddress == "" {
		return nil, errors.New("factory address is not configured")
	}
	return factory.New(common.HexToAddress(s.cfg.FactoryAddress), s.Pool, s.Wallet, s.logger)
}

// Close releases connections in reverse order of creation.
func (s *Stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func (s *Stack) cacheStore(ctx context.Context) (cache.Store, error) {
	if s.cfg.RedisURL == "" {
		return cache.NewMemoryStore(clock.New()), nil
	}
	store, err := cache.NewRedisStoreFromURL(ctx, s.cfg.RedisURL, s.cfg.CacheNamespace)
	if err != nil {
		return nil, fmt.Errorf("connect redis cache: %w", err)
	}
	s.closers = append(s.closers, func() {
		if err := store.Close(); err != nil {
			s.logger.Warn("close redis cache", zap.Error(err))
		}
	})
	return store, nil
}

// keyedWallet sends transactions through the primary endpoint. Writes are
// never rotated.
func (s *Stack) keyedWallet(ctx context.Context) (Wallet, error) {
	backend, err := ethclient.DialContext(ctx, s.cfg.RPCURLs[0])
	if err != nil {
		return nil, fmt.Errorf("dial write endpoint: %w", err)
	}
	s.closers = append(s.closers, backend.Close)

	keyed, err := wallet.NewKeyed(backend, s.cfg.PrivateKey, s.cfg.chainID(), s.logger.Named("wallet"))
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return keyed, nil
}
