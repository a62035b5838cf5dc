package governance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/chain"
	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var ErrInvalidDelegatee = errors.New("delegatee address is required")

// Eligibility is the outcome of a proposal creation precheck.
type Eligibility string

const (
	Eligible        Eligibility = "eligible"
	NeedsDelegation Eligibility = "needs_delegation"
	// Misconfigured means votes are delegated to the user yet the governor
	// reports no voting power, so the governor likely counts another token.
	Misconfigured  Eligibility = "misconfigured"
	BelowThreshold Eligibility = "below_threshold"
	Unknown        Eligibility = "unknown"
)

var eligibilityMessages = map[Eligibility]string{
	Eligible:        "You can create proposals.",
	NeedsDelegation: "You need to delegate your voting power to yourself before creating proposals.",
	Misconfigured:   "There appears to be a configuration issue with the governance system. The governor may be using a different token than expected. Please contact the community creator.",
	BelowThreshold:  "Insufficient voting power to create a proposal.",
	Unknown:         "Failed to check proposal eligibility.",
}

// EligibilityReport explains an Eligibility.
type EligibilityReport struct {
	Result      Eligibility    `json:"result"`
	Message     string         `json:"message"`
	VotingPower *big.Int       `json:"votingPower,omitempty"`
	Threshold   *big.Int       `json:"threshold,omitempty"`
	DelegatedTo common.Address `json:"delegatedTo"`
}

func newReport(result Eligibility) EligibilityReport {
	return EligibilityReport{Result: result, Message: eligibilityMessages[result]}
}

// DelegateVotes delegates the wallet's NFT voting power to delegatee.
func (a *Aggregator) DelegateVotes(ctx context.Context, nft, delegatee common.Address) (common.Hash, error) {
	if delegatee == (common.Address{}) {
		return common.Hash{}, ErrInvalidDelegatee
	}
	if a.wallet == nil {
		return common.Hash{}, wallet.ErrNoWallet
	}

	hash, err := a.wallet.WriteContract(ctx, wallet.WriteRequest{
		Contract: nft,
		ABI:      contracts.NFTABI,
		Method:   "delegate",
		Args:     []any{delegatee},
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("delegate votes: %w", err)
	}
	if err := a.chain.Invalidate(ctx, chain.NFTPrefix(nft)); err != nil {
		a.logger.Warn("nft cache invalidation failed", zap.Error(err))
	}
	return hash, nil
}

// GetDelegatedTo returns the zero address when delegation cannot be read.
func (a *Aggregator) GetDelegatedTo(ctx context.Context, nft, account common.Address) common.Address {
	delegatee, err := a.chain.Delegates(ctx, nft, account)
	if err != nil {
		a.logger.Warn("delegates unavailable", zap.String("account", account.Hex()), zap.Error(err))
		return common.Address{}
	}
	return delegatee
}

// GetVotingPower reads getVotes at the previous block, the latest
// timepoint the governor accepts.
func (a *Aggregator) GetVotingPower(ctx context.Context, governor, account common.Address) (*big.Int, error) {
	latest, err := a.chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	timepoint := new(big.Int)
	if latest > 0 {
		timepoint.SetUint64(latest - 1)
	}
	power, err := a.chain.GetVotes(ctx, governor, account, timepoint)
	if err != nil {
		return nil, fmt.Errorf("voting power: %w", err)
	}
	return power, nil
}

func (a *Aggregator) GetProposalThreshold(ctx context.Context, governor common.Address) (*big.Int, error) {
	threshold, err := a.chain.ProposalThreshold(ctx, governor)
	if err != nil {
		return nil, fmt.Errorf("proposal threshold: %w", err)
	}
	return threshold, nil
}

// CheckEligibility tells whether user may create a proposal in community.
// Creators are always eligible once their power can be read.
func (a *Aggregator) CheckEligibility(ctx context.Context, community model.Community, user common.Address) EligibilityReport {
	power, err := a.GetVotingPower(ctx, community.Governor, user)
	if err != nil {
		a.logger.Warn("eligibility check failed", zap.String("user", user.Hex()), zap.Error(err))
		return newReport(Unknown)
	}
	threshold, err := a.GetProposalThreshold(ctx, community.Governor)
	if err != nil {
		a.logger.Warn("eligibility check failed", zap.String("user", user.Hex()), zap.Error(err))
		return newReport(Unknown)
	}

	report := newReport(Eligible)
	report.VotingPower = power
	report.Threshold = threshold
	if community.CreatedBy(user) {
		return report
	}

	if power.Sign() == 0 {
		report.DelegatedTo = a.GetDelegatedTo(ctx, community.NFT, user)
		result := NeedsDelegation
		if report.DelegatedTo == user {
			result = Misconfigured
		}
		report.Result, report.Message = result, eligibilityMessages[result]
		return report
	}

	if power.Cmp(threshold) < 0 {
		report.Result = BelowThreshold
		report.Message = fmt.Sprintf("Insufficient voting power. You have %s votes, but need %s votes to create a proposal.", power, threshold)
	}
	return report
}
