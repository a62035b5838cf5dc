package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/resilient"
	"github.com/ethereum/go-ethereum/common"
)

func (r *Reader) ProposalState(ctx context.Context, governor common.Address, id *big.Int) (model.ProposalState, error) {
	state, err := view[uint8](ctx, r, proposalKey(governor, id, "state"), "governor.state",
		contracts.GovernorABI, governor, "state", id)
	if err != nil {
		return model.ProposalPending, err
	}
	s := model.ProposalState(state)
	if !s.Valid() {
		return model.ProposalPending, fmt.Errorf("unknown proposal state %d", state)
	}
	return s, nil
}

func (r *Reader) ProposalVotes(ctx context.Context, governor common.Address, id *big.Int) (model.ProposalVotes, error) {
	return resilient.Read(ctx, r.client, proposalKey(governor, id, "tally"), func(ctx context.Context) (model.ProposalVotes, error) {
		out, err := r.call(ctx, contracts.GovernorABI, governor, "proposalVotes", id)
		if err != nil {
			return model.ProposalVotes{}, err
		}
		if len(out) != 3 {
			return model.ProposalVotes{}, fmt.Errorf("proposalVotes returned %d values", len(out))
		}
		against, okA := out[0].(*big.Int)
		forVotes, okF := out[1].(*big.Int)
		abstain, okB := out[2].(*big.Int)
		if !okA || !okF || !okB {
			return model.ProposalVotes{}, fmt.Errorf("proposalVotes returned unexpected types")
		}
		return model.ProposalVotes{Against: against, For: forVotes, Abstain: abstain}, nil
	}, resilient.WithOperation("governor.proposal_votes"))
}

func (r *Reader) ProposalSnapshot(ctx context.Context, governor common.Address, id *big.Int) (*big.Int, error) {
	return view[*big.Int](ctx, r, proposalKey(governor, id, "snapshot"), "governor.proposal_snapshot",
		contracts.GovernorABI, governor, "proposalSnapshot", id)
}

func (r *Reader) ProposalDeadline(ctx context.Context, governor common.Address, id *big.Int) (*big.Int, error) {
	return view[*big.Int](ctx, r, proposalKey(governor, id, "deadline"), "governor.proposal_deadline",
		contracts.GovernorABI, governor, "proposalDeadline", id)
}

// HasVoted reports whether account already voted on the proposal.
func (r *Reader) HasVoted(ctx context.Context, governor common.Address, id *big.Int, account common.Address) (bool, error) {
	return view[bool](ctx, r, proposalKey(governor, id, "voted:"+addrKey(account)), "governor.has_voted",
		contracts.GovernorABI, governor, "hasVoted", id, account)
}

// GetVotes returns the voting power of account at timepoint.
func (r *Reader) GetVotes(ctx context.Context, governor, account common.Address, timepoint *big.Int) (*big.Int, error) {
	key := governorKey(governor, fmt.Sprintf("votes:%s:%s", addrKey(account), timepoint.String()))
	return view[*big.Int](ctx, r, key, "governor.get_votes",
		contracts.GovernorABI, governor, "getVotes", account, timepoint)
}

func (r *Reader) ProposalThreshold(ctx context.Context, governor common.Address) (*big.Int, error) {
	return view[*big.Int](ctx, r, governorKey(governor, "threshold"), "governor.proposal_threshold",
		contracts.GovernorABI, governor, "proposalThreshold")
}
