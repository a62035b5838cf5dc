package governance

import (
	"context"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Chain is the part of chain.Reader the aggregator needs.
	Chain interface {
		BlockNumber(ctx context.Context) (uint64, error)
		BlockTime(ctx context.Context, n uint64) (uint64, error)
		ProposalCreatedLogs(ctx context.Context, governor common.Address, from, to uint64) ([]contracts.ProposalCreated, error)
		VoteCastLogs(ctx context.Context, governor common.Address, id *big.Int, from, to uint64) ([]contracts.VoteCast, error)
		ProposalState(ctx context.Context, governor common.Address, id *big.Int) (model.ProposalState, error)
		ProposalVotes(ctx context.Context, governor common.Address, id *big.Int) (model.ProposalVotes, error)
		ProposalSnapshot(ctx context.Context, governor common.Address, id *big.Int) (*big.Int, error)
		ProposalDeadline(ctx context.Context, governor common.Address, id *big.Int) (*big.Int, error)
		HasVoted(ctx context.Context, governor common.Address, id *big.Int, account common.Address) (bool, error)
		GetVotes(ctx context.Context, governor, account common.Address, timepoint *big.Int) (*big.Int, error)
		ProposalThreshold(ctx context.Context, governor common.Address) (*big.Int, error)
		Delegates(ctx context.Context, nft, account common.Address) (common.Address, error)
		TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
		Invalidate(ctx context.Context, prefix string) error
	}
	Wallet interface {
		Address(ctx context.Context) (common.Address, error)
		WriteContract(ctx context.Context, req wallet.WriteRequest) (common.Hash, error)
	}
	Metrics interface {
		ObserveDiscovery(outcome string, proposals int, started time.Time)
		ObserveFieldFailure(field string, rateLimited bool)
	}
)
