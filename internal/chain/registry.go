package chain

import (
	"context"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/ethereum/go-ethereum/common"
)

func (r *Reader) AllCommunities(ctx context.Context, registry common.Address) ([]contracts.RegistryCommunity, error) {
	return view[[]contracts.RegistryCommunity](ctx, r, registryKey(registry, "all"), "registry.all_communities",
		contracts.RegistryABI, registry, "getAllCommunities")
}

func (r *Reader) Community(ctx context.Context, registry common.Address, id *big.Int) (contracts.RegistryCommunity, error) {
	return view[contracts.RegistryCommunity](ctx, r, registryKey(registry, "community:"+id.String()), "registry.community",
		contracts.RegistryABI, registry, "getCommunity", id)
}
