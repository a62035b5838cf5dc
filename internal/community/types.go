package community

import (
	"context"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/ratelimit"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Chain interface {
		BlockNumberHint(ctx context.Context) (uint64, error)
		NFTIdentity(ctx context.Context, nft common.Address) (name, symbol string, err error)
		BalanceOf(ctx context.Context, nft, owner common.Address) (*big.Int, error)
		MintPrice(ctx context.Context, nft common.Address) (*big.Int, error)
		MintPriceUSD(ctx context.Context, nft common.Address) (*big.Int, error)
		PriceFeed(ctx context.Context, nft common.Address) (common.Address, error)
		Invalidate(ctx context.Context, prefix string) error
	}
	Registry interface {
		GetCommunity(ctx context.Context, id *big.Int) (model.Community, error)
	}
	// Pacer hands out the limiter that spaces the reads of one profile.
	Pacer interface {
		NewLimiter() ratelimit.Limiter
	}
	Wallet interface {
		Address(ctx context.Context) (common.Address, error)
		WriteContract(ctx context.Context, req wallet.WriteRequest) (common.Hash, error)
	}
)
