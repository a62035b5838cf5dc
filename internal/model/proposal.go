package model

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalState mirrors the governor's ProposalState enum.
type ProposalState uint8

const (
	ProposalPending ProposalState = iota
	ProposalActive
	ProposalCanceled
	ProposalDefeated
	ProposalSucceeded
	ProposalQueued
	ProposalExpired
	ProposalExecuted
)

var proposalStateNames = [...]string{
	ProposalPending:   "pending",
	ProposalActive:    "active",
	ProposalCanceled:  "canceled",
	ProposalDefeated:  "defeated",
	ProposalSucceeded: "succeeded",
	ProposalQueued:    "queued",
	ProposalExpired:   "expired",
	ProposalExecuted:  "executed",
}

var proposalStateLabels = [...]string{
	ProposalPending:   "Pending",
	ProposalActive:    "Active",
	ProposalCanceled:  "Canceled",
	ProposalDefeated:  "Defeated",
	ProposalSucceeded: "Succeeded",
	ProposalQueued:    "Queued",
	ProposalExpired:   "Expired",
	ProposalExecuted:  "Executed",
}

// Valid reports whether the value is one the governor can report.
func (s ProposalState) Valid() bool {
	return int(s) < len(proposalStateNames)
}

func (s ProposalState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
	return proposalStateNames[s]
}

// Label is the human readable name.
func (s ProposalState) Label() string {
	if !s.Valid() {
		return "Unknown"
	}
	return proposalStateLabels[s]
}

// IsTerminal reports states a proposal never leaves.
func (s ProposalState) IsTerminal() bool {
	switch s {
	case ProposalCanceled, ProposalDefeated, ProposalExpired, ProposalExecuted:
		return true
	default:
		return false
	}
}

// IsActive reports whether voting is open.
func (s ProposalState) IsActive() bool {
	return s == ProposalActive
}

// IsCompleted reports whether voting has finished with an outcome.
func (s ProposalState) IsCompleted() bool {
	switch s {
	case ProposalSucceeded, ProposalDefeated, ProposalExecuted, ProposalExpired, ProposalCanceled:
		return true
	default:
		return false
	}
}

func (s ProposalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ProposalState) UnmarshalText(text []byte) error {
	for i, name := range proposalStateNames {
		if name == string(text) {
			*s = ProposalState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown proposal state %q", text)
}

// ProposalType is the metadata category embedded in a description.
type ProposalType string

const (
	ProposalTextOnly  ProposalType = "text_only"
	ProposalTreasury  ProposalType = "treasury"
	ProposalParameter ProposalType = "parameter"
	ProposalCustom    ProposalType = "custom"
)

// ParseProposalType maps unrecognised values to ProposalCustom.
func ParseProposalType(v string) ProposalType {
	switch t := ProposalType(v); t {
	case ProposalTextOnly, ProposalTreasury, ProposalParameter, ProposalCustom:
		return t
	default:
		return ProposalCustom
	}
}

// VoteSupport is the governor's support value.
type VoteSupport uint8

const (
	VoteAgainst VoteSupport = iota
	VoteFor
	VoteAbstain
)

func (v VoteSupport) Valid() bool {
	return v <= VoteAbstain
}

func (v VoteSupport) String() string {
	switch v {
	case VoteAgainst:
		return "against"
	case VoteFor:
		return "for"
	case VoteAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// ParseVoteSupport accepts the names returned by String.
func ParseVoteSupport(v string) (VoteSupport, error) {
	switch v {
	case "against":
		return VoteAgainst, nil
	case "for":
		return VoteFor, nil
	case "abstain":
		return VoteAbstain, nil
	default:
		return 0, fmt.Errorf("unknown vote support %q", v)
	}
}

// ProposalVotes is the tally reported by proposalVotes.
type ProposalVotes struct {
	Against *big.Int `json:"against"`
	For     *big.Int `json:"for"`
	Abstain *big.Int `json:"abstain"`
}

// ZeroVotes is used when a tally cannot be read.
func ZeroVotes() ProposalVotes {
	return ProposalVotes{Against: new(big.Int), For: new(big.Int), Abstain: new(big.Int)}
}

// Total sums the three buckets.
func (v ProposalVotes) Total() *big.Int {
	total := new(big.Int)
	for _, x := range []*big.Int{v.Against, v.For, v.Abstain} {
		if x != nil {
			total.Add(total, x)
		}
	}
	return total
}

// ProposalMetadata is the JSON document stored in a proposal description.
type ProposalMetadata struct {
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	Type        ProposalType `json:"type"`
}

// Proposal is a ProposalCreated event enriched with live governor state.
type Proposal struct {
	ID          *big.Int         `json:"id"`
	Proposer    common.Address   `json:"proposer"`
	Targets     []common.Address `json:"targets"`
	Values      []*big.Int       `json:"values"`
	Calldatas   [][]byte         `json:"calldatas"`
	VoteStart   *big.Int         `json:"voteStart"`
	VoteEnd     *big.Int         `json:"voteEnd"`
	Description string           `json:"description"`
	Body        string           `json:"body"`
	State       ProposalState    `json:"state"`
	Votes       ProposalVotes    `json:"votes"`
	Snapshot    *big.Int         `json:"snapshot"`
	Deadline    *big.Int         `json:"deadline"`
	Type        ProposalType     `json:"type"`
	Title       string           `json:"title"`
	Summary     string           `json:"summary"`
	BlockNumber uint64           `json:"blockNumber"`
	TxHash      common.Hash      `json:"txHash"`
	// Defaulted names the live fields that could not be read.
	Defaulted []string `json:"defaulted,omitempty"`
}

// HasDefault reports whether field was filled with its default value.
func (p Proposal) HasDefault(field string) bool {
	for _, f := range p.Defaulted {
		if f == field {
			return true
		}
	}
	return false
}

// Vote is a decoded VoteCast event.
type Vote struct {
	Voter       common.Address `json:"voter"`
	ProposalID  *big.Int       `json:"proposalId"`
	Support     VoteSupport    `json:"support"`
	Weight      *big.Int       `json:"weight"`
	Reason      string         `json:"reason"`
	Timestamp   uint64         `json:"timestamp"`
	BlockNumber uint64         `json:"blockNumber"`
	TxHash      common.Hash    `json:"txHash"`
}

// ProposalSnapshot is a point-in-time tally recorded by the follower.
type ProposalSnapshot struct {
	Network     Network
	Governor    common.Address
	ProposalID  *big.Int
	State       ProposalState
	Against     *big.Int
	For         *big.Int
	Abstain     *big.Int
	BlockNumber uint64
	Title       string
	ObservedAt  time.Time
}

// TallyDecrease records a tally that went down between two observations,
// which only happens when the chain reorganised.
type TallyDecrease struct {
	Network     Network
	Governor    common.Address
	ProposalID  *big.Int
	Previous    *big.Int
	Observed    *big.Int
	BlockNumber uint64
	DetectedAt  time.Time
}
