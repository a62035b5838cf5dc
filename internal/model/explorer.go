package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var explorers = map[Network]string{
	BaseMainnet: "https://basescan.org",
	BaseSepolia: "https://sepolia.basescan.org",
}

// TransactionURL links a transaction on the network's block explorer.
func TransactionURL(network Network, hash common.Hash) string {
	base, ok := explorers[network]
	if !ok {
		base = explorers[BaseMainnet]
	}
	return fmt.Sprintf("%s/tx/%s", base, hash.Hex())
}

// ShortHash renders 0x1234...abcd.
func ShortHash(hex string) string {
	if len(hex) <= 12 {
		return hex
	}
	return hex[:6] + "..." + hex[len(hex)-4:]
}
