// Package community builds community profiles and per user status.
package community

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Tribo-Hackathon/Tribo/internal/chain"
	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	ErrPriceFeedUnavailable = errors.New("price feed unavailable, please try again later")
	ErrIncorrectPayment     = errors.New("incorrect payment amount, please refresh and try again")
)

type Reader struct {
	chain    Chain
	registry Registry
	pacer    Pacer
	wallet   Wallet
	logger   *zap.Logger
}

// NewReader builds a Reader. w may be nil, in which case Mint returns
// wallet.ErrNoWallet.
func NewReader(chain Chain, registry Registry, pacer Pacer, w Wallet, logger *zap.Logger) (*Reader, error) {
	if chain == nil {
		return nil, errors.New("chain reader is required")
	}
	if registry == nil {
		return nil, errors.New("registry reader is required")
	}
	if pacer == nil {
		return nil, errors.New("pacer is required")
	}
	return &Reader{
		chain:    chain,
		registry: registry,
		pacer:    pacer,
		wallet:   w,
		logger:   logger.Named("community"),
	}, nil
}

// GetCommunityProfile fails when the community or its NFT name and symbol
// cannot be read. Pricing fields are left nil when unreadable.
func (r *Reader) GetCommunityProfile(ctx context.Context, id *big.Int) (model.CommunityProfile, error) {
	community, err := r.registry.GetCommunity(ctx, id)
	if err != nil {
		return model.CommunityProfile{}, err
	}

	profile := model.CommunityProfile{Community: community}
	limiter := r.pacer.NewLimiter()

	limiter.Take()
	if profile.NFTName, profile.NFTSymbol, err = r.chain.NFTIdentity(ctx, community.NFT); err != nil {
		return model.CommunityProfile{}, fmt.Errorf("read nft identity: %w", err)
	}

	limiter.Take()
	if price, err := r.chain.MintPrice(ctx, community.NFT); err == nil {
		profile.MintPrice = price
	} else {
		r.optionalFieldFailed("getMintPrice", community.NFT, err)
	}
	limiter.Take()
	if usd, err := r.chain.MintPriceUSD(ctx, community.NFT); err == nil {
		profile.MintPriceUSD = usd
	} else {
		r.optionalFieldFailed("mintPriceUSD", community.NFT, err)
	}
	limiter.Take()
	if feed, err := r.chain.PriceFeed(ctx, community.NFT); err == nil {
		profile.PriceFeed = &feed
	} else {
		r.optionalFieldFailed("priceFeed", community.NFT, err)
	}

	return profile, nil
}

func (r *Reader) optionalFieldFailed(field string, nft common.Address, err error) {
	r.logger.Debug("optional nft field unavailable",
		zap.String("field", field),
		zap.String("nft", nft.Hex()),
		zap.Error(err),
	)
}

// GetUserStatus never fails. Any read failure yields model.VisitorStatus.
func (r *Reader) GetUserStatus(ctx context.Context, user common.Address, community model.Community) model.UserCommunityStatus {
	block, err := r.chain.BlockNumberHint(ctx)
	if err != nil {
		r.logger.Debug("block number unavailable for status", zap.Error(err))
		block = 0
	}

	balance, err := r.chain.BalanceOf(ctx, community.NFT, user)
	if err != nil {
		r.logger.Warn("nft balance unavailable, assuming visitor",
			zap.String("user", user.Hex()),
			zap.String("nft", community.NFT.Hex()),
			zap.Error(err),
		)
		return model.VisitorStatus()
	}

	isCreator := community.CreatedBy(user)
	status := model.UserCommunityStatus{
		Role:        model.RoleVisitor,
		NFTBalance:  balance,
		IsCreator:   isCreator,
		CanVote:     balance.Sign() > 0 || isCreator,
		BlockNumber: block,
	}
	if isCreator {
		status.Role = model.RoleCreator
	}
	return status
}

// GetMintPrice reads the current price, bypassing the cache.
func (r *Reader) GetMintPrice(ctx context.Context, nft common.Address) (*big.Int, error) {
	if err := r.chain.Invalidate(ctx, chain.NFTPrefix(nft)+"mintPrice"); err != nil {
		r.logger.Warn("mint price cache invalidation failed", zap.Error(err))
	}
	price, err := r.chain.MintPrice(ctx, nft)
	if err != nil {
		return nil, mapMintError(err)
	}
	return price, nil
}

// Mint buys one NFT at the current price for the connected wallet.
func (r *Reader) Mint(ctx context.Context, nft common.Address) (common.Hash, error) {
	if r.wallet == nil {
		return common.Hash{}, wallet.ErrNoWallet
	}
	minter, err := r.wallet.Address(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("wallet address: %w", err)
	}

	price, err := r.GetMintPrice(ctx, nft)
	if err != nil {
		return common.Hash{}, fmt.Errorf("read mint price: %w", err)
	}

	hash, err := r.wallet.WriteContract(ctx, wallet.WriteRequest{
		Contract: nft,
		ABI:      contracts.NFTABI,
		Method:   "mint",
		Value:    price,
	})
	if err != nil {
		return common.Hash{}, mapMintError(err)
	}

	if err := r.chain.Invalidate(ctx, chain.NFTPrefix(nft)); err != nil {
		r.logger.Warn("nft cache invalidation failed", zap.Error(err))
	}
	r.logger.Info("mint submitted",
		zap.String("nft", nft.Hex()),
		zap.String("minter", minter.Hex()),
		zap.String("price", price.String()),
		zap.String("tx", hash.Hex()),
	)
	return hash, nil
}

func mapMintError(err error) error {
	name, ok := contracts.RevertName(contracts.NFTABI, err)
	if !ok {
		name = err.Error()
	}
	switch {
	case strings.Contains(name, "InvalidPriceFeed"):
		return fmt.Errorf("%w: %w", ErrPriceFeedUnavailable, err)
	case strings.Contains(name, "InvalidMintValue"):
		return fmt.Errorf("%w: %w", ErrIncorrectPayment, err)
	}
	return err
}
