package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func addrKey(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

func registryKey(registry common.Address, suffix string) string {
	return fmt.Sprintf("registry:%s:%s", addrKey(registry), suffix)
}

func nftKey(nft common.Address, suffix string) string {
	return fmt.Sprintf("nft:%s:%s", addrKey(nft), suffix)
}

func governorKey(governor common.Address, suffix string) string {
	return fmt.Sprintf("governor:%s:%s", addrKey(governor), suffix)
}

func proposalKey(governor common.Address, id *big.Int, suffix string) string {
	return ProposalPrefix(governor, id) + suffix
}

// ProposalPrefix is the cache prefix of every read about one proposal.
func ProposalPrefix(governor common.Address, id *big.Int) string {
	return fmt.Sprintf("proposal:%s:%s:", addrKey(governor), id.String())
}

// NFTPrefix is the cache prefix of every read about one NFT contract.
func NFTPrefix(nft common.Address) string {
	return fmt.Sprintf("nft:%s:", addrKey(nft))
}

// GovernorPrefix is the cache prefix of governor level reads.
func GovernorPrefix(governor common.Address) string {
	return fmt.Sprintf("governor:%s:", addrKey(governor))
}
