package governance

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Tribo-Hackathon/Tribo/internal/chain"
	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var (
	ErrTitleRequired       = errors.New("proposal title is required")
	ErrInvalidRecipient    = errors.New("treasury recipient must be a valid address")
	ErrInvalidAmount       = errors.New("treasury amount must be positive")
	ErrNoActions           = errors.New("proposal needs at least one action")
	ErrMismatchedActions   = errors.New("targets, values and calldatas must have the same length")
	ErrInvalidValue        = errors.New("action values must be non-negative")
	ErrUnsupportedProposal = errors.New("unsupported proposal type")
)

// ProposalParams is the input of CreateProposal. Recipient and Amount are
// used by treasury proposals, Targets, Values and Calldatas by parameter
// and custom proposals.
type ProposalParams struct {
	Type        model.ProposalType `json:"type"`
	Title       string             `json:"title"`
	Summary     string             `json:"summary"`
	Description string             `json:"description"`

	Recipient string   `json:"recipient,omitempty"`
	Amount    *big.Int `json:"amount,omitempty"`

	Targets   []common.Address `json:"targets,omitempty"`
	Values    []*big.Int       `json:"values,omitempty"`
	Calldatas [][]byte         `json:"calldatas,omitempty"`
}

type actions struct {
	targets   []common.Address
	values    []*big.Int
	calldatas [][]byte
}

// Validate checks params without touching the network.
func (p ProposalParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	switch p.Type {
	case model.ProposalTextOnly, "":
		return nil
	case model.ProposalTreasury:
		if !common.IsHexAddress(p.Recipient) || common.HexToAddress(p.Recipient) == (common.Address{}) {
			return ErrInvalidRecipient
		}
		if p.Amount == nil || p.Amount.Sign() <= 0 {
			return ErrInvalidAmount
		}
		return nil
	case model.ProposalParameter, model.ProposalCustom:
		if len(p.Targets) == 0 {
			return ErrNoActions
		}
		if len(p.Values) != len(p.Targets) || len(p.Calldatas) != len(p.Targets) {
			return ErrMismatchedActions
		}
		for i, v := range p.Values {
			if v == nil || v.Sign() < 0 {
				return fmt.Errorf("%w: action %d", ErrInvalidValue, i)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProposal, p.Type)
	}
}

// actions builds the governor calls. Text only proposals call the
// proposer with no value because the governor rejects empty proposals.
func (p ProposalParams) actions(proposer common.Address) actions {
	switch p.Type {
	case model.ProposalTreasury:
		return actions{
			targets:   []common.Address{common.HexToAddress(p.Recipient)},
			values:    []*big.Int{p.Amount},
			calldatas: [][]byte{{}},
		}
	case model.ProposalParameter, model.ProposalCustom:
		return actions{targets: p.Targets, values: p.Values, calldatas: p.Calldatas}
	default:
		return actions{
			targets:   []common.Address{proposer},
			values:    []*big.Int{new(big.Int)},
			calldatas: [][]byte{{}},
		}
	}
}

// CreateProposal validates params, embeds the metadata document in the
// description and submits propose. It is never retried.
func (a *Aggregator) CreateProposal(ctx context.Context, governor common.Address, params ProposalParams) (common.Hash, error) {
	if err := params.Validate(); err != nil {
		return common.Hash{}, err
	}
	if params.Type == "" {
		params.Type = model.ProposalTextOnly
	}
	if a.wallet == nil {
		return common.Hash{}, wallet.ErrNoWallet
	}

	description, err := EncodeProposalDescription(model.ProposalMetadata{
		Title:       params.Title,
		Summary:     params.Summary,
		Description: params.Description,
		Type:        params.Type,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("encode description: %w", err)
	}

	proposer, err := a.wallet.Address(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("wallet address: %w", err)
	}
	acts := params.actions(proposer)

	hash, err := a.wallet.WriteContract(ctx, wallet.WriteRequest{
		Contract: governor,
		ABI:      contracts.GovernorABI,
		Method:   "propose",
		Args:     []any{acts.targets, acts.values, acts.calldatas, description},
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("create proposal: %w", err)
	}
	if err := a.chain.Invalidate(ctx, chain.GovernorPrefix(governor)); err != nil {
		a.logger.Warn("governor cache invalidation failed", zap.Error(err))
	}
	a.logger.Info("proposal submitted",
		zap.String("governor", governor.Hex()),
		zap.String("type", string(params.Type)),
		zap.String("tx", hash.Hex()),
	)
	return hash, nil
}
