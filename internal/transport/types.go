package transport

import (
	"context"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/governance"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Registry interface {
		ListCommunities(ctx context.Context) []model.Community
		GetCommunity(ctx context.Context, id *big.Int) (model.Community, error)
		FindByCreator(ctx context.Context, addr common.Address) (model.Community, error)
	}
	Communities interface {
		GetCommunityProfile(ctx context.Context, id *big.Int) (model.CommunityProfile, error)
		GetUserStatus(ctx context.Context, user common.Address, community model.Community) model.UserCommunityStatus
		Mint(ctx context.Context, nft common.Address) (common.Hash, error)
	}
	Governance interface {
		DiscoverProposals(ctx context.Context, governor common.Address) governance.Discovery
		ListVotes(ctx context.Context, governor common.Address, id *big.Int) ([]model.Vote, error)
		CheckEligibility(ctx context.Context, community model.Community, user common.Address) governance.EligibilityReport
		CastVote(ctx context.Context, governor common.Address, id *big.Int, support model.VoteSupport, reason string) (common.Hash, error)
		CreateProposal(ctx context.Context, governor common.Address, params governance.ProposalParams) (common.Hash, error)
		DelegateVotes(ctx context.Context, nft, delegatee common.Address) (common.Hash, error)
	}
	// History serves recorded tallies. It is optional.
	History interface {
		ProposalHistory(ctx context.Context, governor common.Address, id *big.Int, limit int) ([]model.ProposalSnapshot, error)
	}
	Metrics interface {
		ObserveRequest(route string, code int, started time.Time)
	}
	// Prober checks the upstream provider.
	Prober interface {
		Healthy(ctx context.Context) error
	}
)
