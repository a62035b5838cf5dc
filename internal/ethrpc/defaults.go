package ethrpc

import "time"

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryCount = 2
	defaultRetryDelay = time.Second
)

// DefaultBaseEndpoints are the public Base mainnet RPC URLs in fallback order.
var DefaultBaseEndpoints = []string{
	"https://mainnet.base.org",
	"https://base-mainnet.public.blastapi.io",
	"https://base.gateway.tenderly.co",
}
