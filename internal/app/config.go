// Package app builds the reader stack shared by the binaries.
package app

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// ChainConfig is embedded by every binary's go-flags config.
type ChainConfig struct {
	RPCURLs         []string      `long:"rpc-url" env:"TRIBO_RPC_URLS" env-delim:"," description:"JSON-RPC endpoints in priority order" default:"https://mainnet.base.org" default:"https://base-mainnet.public.blastapi.io" default:"https://base.gateway.tenderly.co"`
	Network         string        `long:"network" env:"TRIBO_NETWORK" description:"network name" default:"base" choice:"base" choice:"base-sepolia"`
	ChainID         int64         `long:"chain-id" env:"TRIBO_CHAIN_ID" description:"chain id used to sign transactions" default:"8453"`
	RegistryAddress string        `long:"registry" env:"TRIBO_REGISTRY_ADDRESS" description:"community registry contract" required:"true"`
	FactoryAddress  string        `long:"factory" env:"TRIBO_FACTORY_ADDRESS" description:"community factory contract"`
	RedisURL        string        `long:"redis-url" env:"TRIBO_REDIS_URL" description:"shared cache; in-memory when empty"`
	CacheNamespace  string        `long:"cache-namespace" env:"TRIBO_CACHE_NAMESPACE" description:"redis key prefix" default:"tribo"`
	CacheTTL        time.Duration `long:"cache-ttl" env:"TRIBO_CACHE_TTL" description:"read cache ttl" default:"30s"`
	RPCTimeout      time.Duration `long:"rpc-timeout" env:"TRIBO_RPC_TIMEOUT" description:"per call timeout" default:"10s"`
	PrivateKey      string        `long:"private-key" env:"TRIBO_PRIVATE_KEY" description:"hex key for writes; read only when empty"`
}

// Validate checks the fields that go-flags cannot.
func (c ChainConfig) Validate() error {
	if len(c.RPCURLs) == 0 {
		return errors.New("at least one rpc url is required")
	}
	if !common.IsHexAddress(c.RegistryAddress) {
		return fmt.Errorf("invalid registry address %q", c.RegistryAddress)
	}
	if c.FactoryAddress != "" && !common.IsHexAddress(c.FactoryAddress) {
		return fmt.Errorf("invalid factory address %q", c.FactoryAddress)
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("invalid chain id %d", c.ChainID)
	}
	return nil
}

func (c ChainConfig) network() model.Network {
	return model.Network(c.Network)
}

func (c ChainConfig) chainID() *big.Int {
	return big.NewInt(c.ChainID)
}
