package governance

import (
	"fmt"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
)

// Filter selects a view of a proposal list.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts the empty string as FilterAll.
func ParseFilter(v string) (Filter, error) {
	switch f := Filter(v); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown proposal filter %q", v)
	}
}

// FilterProposals keeps the order of proposals.
func FilterProposals(proposals []model.Proposal, filter Filter) []model.Proposal {
	out := make([]model.Proposal, 0, len(proposals))
	for _, p := range proposals {
		switch filter {
		case FilterActive:
			if !p.State.IsActive() {
				continue
			}
		case FilterCompleted:
			if !p.State.IsCompleted() {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// Percentages is a display split of a tally in whole percent, rounded down.
type Percentages struct {
	Against int64 `json:"against"`
	For     int64 `json:"for"`
	Abstain int64 `json:"abstain"`
}

// VotePercentages computes floor(x*100/total) on the raw weights. A zero
// total yields zeros.
func VotePercentages(votes model.ProposalVotes) Percentages {
	total := votes.Total()
	if total.Sign() == 0 {
		return Percentages{}
	}
	return Percentages{
		Against: percentOf(votes.Against, total),
		For:     percentOf(votes.For, total),
		Abstain: percentOf(votes.Abstain, total),
	}
}

var hundred = big.NewInt(100)

func percentOf(x, total *big.Int) int64 {
	if x == nil || x.Sign() <= 0 {
		return 0
	}
	pct := new(big.Int).Mul(x, hundred)
	return pct.Quo(pct, total).Int64()
}
