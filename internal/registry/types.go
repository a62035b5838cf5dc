package registry

import (
	"context"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Chain is the part of chain.Reader the registry needs.
	Chain interface {
		AllCommunities(ctx context.Context, registry common.Address) ([]contracts.RegistryCommunity, error)
		Community(ctx context.Context, registry common.Address, id *big.Int) (contracts.RegistryCommunity, error)
	}
)
