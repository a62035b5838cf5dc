package model

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Network identifies the chain a deployment lives on.
type Network string

var (
	BaseMainnet Network = "base"
	BaseSepolia Network = "base-sepolia"
)

// Role is the relation of a user to a community.
type Role string

var (
	RoleCreator Role = "creator"
	RoleVisitor Role = "visitor"
)

// Community is a registry record. It never changes once created.
type Community struct {
	ID          *big.Int       `json:"id"`
	Creator     common.Address `json:"creator"`
	NFT         common.Address `json:"nft"`
	Governor    common.Address `json:"governor"`
	Timelock    common.Address `json:"timelock"`
	MetadataURI string         `json:"metadataUri"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// IsZero reports whether the record is the registry's empty value.
func (c Community) IsZero() bool {
	return (c.ID == nil || c.ID.Sign() == 0) && c.NFT == (common.Address{}) && c.Governor == (common.Address{})
}

// CreatedBy compares the creator address ignoring hex case.
func (c Community) CreatedBy(addr common.Address) bool {
	return strings.EqualFold(c.Creator.Hex(), addr.Hex())
}

// CommunityProfile extends a community with NFT metadata. Nil pricing
// fields mean the contract did not expose them.
type CommunityProfile struct {
	Community
	NFTName      string          `json:"nftName"`
	NFTSymbol    string          `json:"nftSymbol"`
	MintPrice    *big.Int        `json:"mintPrice,omitempty"`
	MintPriceUSD *big.Int        `json:"mintPriceUsd,omitempty"`
	PriceFeed    *common.Address `json:"priceFeed,omitempty"`
}

// UserCommunityStatus is advisory and only valid for the block it was read at.
type UserCommunityStatus struct {
	Role        Role     `json:"role"`
	NFTBalance  *big.Int `json:"nftBalance"`
	IsCreator   bool     `json:"isCreator"`
	CanVote     bool     `json:"canVote"`
	BlockNumber uint64   `json:"blockNumber,omitempty"`
}

// VisitorStatus is the conservative default used when reads fail.
func VisitorStatus() UserCommunityStatus {
	return UserCommunityStatus{
		Role:       RoleVisitor,
		NFTBalance: new(big.Int),
	}
}

// DeploymentConfig is the factory input for a new community.
type DeploymentConfig struct {
	Name              string
	Symbol            string
	BaseURI           string
	Creator           common.Address
	MaxSupply         *big.Int
	VotingDelay       *big.Int
	VotingPeriod      uint32
	ProposalThreshold *big.Int
	QuorumNumerator   *big.Int
	DeployTimelock    bool
	MetadataURI       string
}

// DefaultDeploymentConfig returns the standard parameters for a creator.
func DefaultDeploymentConfig(creator common.Address) DeploymentConfig {
	return DeploymentConfig{
		Name:              "Builders Club",
		Symbol:            "BLDR",
		BaseURI:           "ipfs://base-demo/",
		Creator:           creator,
		MaxSupply:         new(big.Int),
		VotingDelay:       big.NewInt(1),
		VotingPeriod:      7200,
		ProposalThreshold: big.NewInt(1),
		QuorumNumerator:   big.NewInt(5),
	}
}

// Deployment holds the addresses emitted by a CommunityCreated event.
type Deployment struct {
	TxHash      common.Hash    `json:"txHash"`
	CommunityID *big.Int       `json:"communityId"`
	Creator     common.Address `json:"creator"`
	NFT         common.Address `json:"nft"`
	Governor    common.Address `json:"governor"`
	Timelock    common.Address `json:"timelock"`
}
