package chain

import (
	"context"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/resilient"
	"github.com/ethereum/go-ethereum/common"
)

// NFTIdentity reads the collection name and symbol as one paced batch.
func (r *Reader) NFTIdentity(ctx context.Context, nft common.Address) (name, symbol string, err error) {
	field := func(method string) resilient.Call[string] {
		return resilient.Call[string]{
			Key:       nftKey(nft, method),
			Operation: "nft." + method,
			Fn: func(ctx context.Context) (string, error) {
				return callOne[string](ctx, r, contracts.NFTABI, nft, method)
			},
		}
	}
	res, err := resilient.BatchRead(ctx, r.client, []resilient.Call[string]{field("name"), field("symbol")})
	if err != nil {
		return "", "", err
	}
	return res[0], res[1], nil
}

func (r *Reader) BalanceOf(ctx context.Context, nft, owner common.Address) (*big.Int, error) {
	return view[*big.Int](ctx, r, nftKey(nft, "balance:"+addrKey(owner)), "nft.balance_of",
		contracts.NFTABI, nft, "balanceOf", owner)
}

// MintPrice is the wei price of the next mint. Older collections do not
// expose it.
func (r *Reader) MintPrice(ctx context.Context, nft common.Address) (*big.Int, error) {
	return view[*big.Int](ctx, r, nftKey(nft, "mintPrice"), "nft.mint_price", contracts.NFTABI, nft, "getMintPrice")
}

func (r *Reader) MintPriceUSD(ctx context.Context, nft common.Address) (*big.Int, error) {
	return view[*big.Int](ctx, r, nftKey(nft, "mintPriceUSD"), "nft.mint_price_usd", contracts.NFTABI, nft, "mintPriceUSD")
}

func (r *Reader) PriceFeed(ctx context.Context, nft common.Address) (common.Address, error) {
	return view[common.Address](ctx, r, nftKey(nft, "priceFeed"), "nft.price_feed", contracts.NFTABI, nft, "priceFeed")
}

// Delegates returns the address account delegated its votes to.
func (r *Reader) Delegates(ctx context.Context, nft, account common.Address) (common.Address, error) {
	return view[common.Address](ctx, r, nftKey(nft, "delegates:"+addrKey(account)), "nft.delegates",
		contracts.NFTABI, nft, "delegates", account)
}
