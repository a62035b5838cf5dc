package governance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/Tribo-Hackathon/Tribo/internal/chain"
	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/Tribo-Hackathon/Tribo/pkg/safe"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

var (
	ErrInvalidSupport    = errors.New("vote support must be against, for or abstain")
	ErrInvalidProposalID = errors.New("proposal id is required")
	ErrTransactionFailed = errors.New("transaction reverted on chain")
)

// CastVote submits one vote through the wallet. It is never retried. The
// cached reads of the proposal are dropped so the next read sees the vote
// once it is mined; AwaitTransaction drops them again after inclusion.
func (a *Aggregator) CastVote(ctx context.Context, governor common.Address, id *big.Int, support model.VoteSupport, reason string) (common.Hash, error) {
	if id == nil || id.Sign() <= 0 {
		return common.Hash{}, ErrInvalidProposalID
	}
	if !support.Valid() {
		return common.Hash{}, ErrInvalidSupport
	}
	if a.wallet == nil {
		return common.Hash{}, wallet.ErrNoWallet
	}

	req := wallet.WriteRequest{
		Contract: governor,
		ABI:      contracts.GovernorABI,
		Method:   "castVote",
		Args:     []any{id, uint8(support)},
	}
	if reason != "" {
		req.Method = "castVoteWithReason"
		req.Args = append(req.Args, reason)
	}

	hash, err := a.wallet.WriteContract(ctx, req)
	if err != nil {
		return common.Hash{}, fmt.Errorf("cast vote on proposal %s: %w", id, err)
	}
	a.invalidateProposal(ctx, governor, id)
	a.logger.Info("vote submitted",
		zap.String("governor", governor.Hex()),
		zap.String("proposal", id.String()),
		zap.String("support", support.String()),
		zap.String("tx", hash.Hex()),
	)
	return hash, nil
}

// AwaitTransaction polls for the receipt of hash and drops the cached reads
// of the proposal once it is mined. A nil id skips the invalidation.
func (a *Aggregator) AwaitTransaction(ctx context.Context, governor common.Address, id *big.Int, hash common.Hash) (*types.Receipt, error) {
	for {
		receipt, err := a.chain.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if id != nil {
				a.invalidateProposal(ctx, governor, id)
			}
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, fmt.Errorf("%w: %s", ErrTransactionFailed, hash.Hex())
			}
			return receipt, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("receipt of %s: %w", hash.Hex(), err)
		}

		if err := a.sleep(ctx, a.receiptPollInterval); err != nil {
			return nil, err
		}
	}
}

// HasVoted is false when the governor cannot be read.
func (a *Aggregator) HasVoted(ctx context.Context, governor common.Address, id *big.Int, account common.Address) bool {
	voted, err := a.chain.HasVoted(ctx, governor, id, account)
	if err != nil {
		a.logger.Warn("hasVoted unavailable", zap.String("proposal", id.String()), zap.Error(err))
		return false
	}
	return voted
}

// ListVotes returns the votes cast on a proposal in block order, read from
// VoteCast logs between the proposal snapshot and the latest block.
func (a *Aggregator) ListVotes(ctx context.Context, governor common.Address, id *big.Int) ([]model.Vote, error) {
	latest, err := a.chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	snapshot, err := a.chain.ProposalSnapshot(ctx, governor, id)
	if err != nil {
		return nil, fmt.Errorf("proposal snapshot: %w", err)
	}
	from, err := safe.BigUint64(snapshot)
	if err != nil {
		return nil, fmt.Errorf("proposal snapshot: %w", err)
	}
	if from > latest {
		return []model.Vote{}, nil
	}

	events, err := a.chain.VoteCastLogs(ctx, governor, id, from, latest)
	if err != nil {
		return nil, fmt.Errorf("vote logs: %w", err)
	}

	votes := make([]model.Vote, 0, len(events))
	for _, ev := range events {
		vote := model.Vote{
			Voter:       ev.Voter,
			ProposalID:  ev.ProposalId,
			Support:     model.VoteSupport(ev.Support),
			Weight:      ev.Weight,
			Reason:      ev.Reason,
			BlockNumber: ev.Raw.BlockNumber,
			TxHash:      ev.Raw.TxHash,
		}
		if ts, err := a.chain.BlockTime(ctx, ev.Raw.BlockNumber); err == nil {
			vote.Timestamp = ts
		} else {
			a.logger.Debug("vote timestamp unavailable", zap.Uint64("block", ev.Raw.BlockNumber), zap.Error(err))
		}
		votes = append(votes, vote)
	}
	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].BlockNumber < votes[j].BlockNumber
	})
	return votes, nil
}

func (a *Aggregator) invalidateProposal(ctx context.Context, governor common.Address, id *big.Int) {
	if err := a.chain.Invalidate(ctx, chain.ProposalPrefix(governor, id)); err != nil {
		a.logger.Warn("proposal cache invalidation failed", zap.String("proposal", id.String()), zap.Error(err))
	}
}
