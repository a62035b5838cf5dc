package governance

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ErrDiscoveryIncomplete means a proposal may exist but the provider did
// not return enough data to tell.
var ErrDiscoveryIncomplete = errors.New("proposal discovery incomplete, provider degraded")

// Discovery is the outcome of one proposal scan.
type Discovery struct {
	Proposals []model.Proposal `json:"proposals"`
	FromBlock uint64           `json:"fromBlock"`
	ToBlock   uint64           `json:"toBlock"`
	// Partial is set when enrichment stopped early on rate limits.
	Partial bool `json:"partial"`
	// Degraded is set when no logs could be read at all. An empty list
	// then does not mean that no proposals exist.
	Degraded bool `json:"degraded"`
}

// GetAllProposals returns the discovered proposals, newest first.
func (a *Aggregator) GetAllProposals(ctx context.Context, governor common.Address) []model.Proposal {
	return a.DiscoverProposals(ctx, governor).Proposals
}

// DiscoverProposals scans ProposalCreated logs of the recent window and
// enriches every proposal with its live state. It never fails; problems
// are reported through the Partial and Degraded flags.
func (a *Aggregator) DiscoverProposals(ctx context.Context, governor common.Address) (d Discovery) {
	started := time.Now()
	defer func() {
		outcome := outcomeComplete
		switch {
		case d.Degraded:
			outcome = outcomeDegraded
		case d.Partial:
			outcome = outcomePartial
		}
		a.metrics.ObserveDiscovery(outcome, len(d.Proposals), started)
	}()

	logger := a.logger.With(zap.String("governor", governor.Hex()))
	d.Proposals = []model.Proposal{}

	latest, err := a.chain.BlockNumber(ctx)
	if err != nil {
		logger.Warn("latest block unavailable, no proposals discovered", zap.Error(err))
		d.Degraded = true
		return d
	}

	events, from, err := a.proposalEvents(ctx, governor, latest)
	if err != nil {
		logger.Warn("proposal logs unavailable, no proposals discovered", zap.Error(err))
		d.Degraded = true
		return d
	}
	d.FromBlock, d.ToBlock = from, latest

	consecutive := 0
	rateLimited := false
	for i, ev := range events {
		if i > 0 {
			delay := a.proposalDelay
			if rateLimited {
				delay = a.rateLimitDelay
			}
			if err := a.sleep(ctx, delay); err != nil {
				d.Partial = true
				break
			}
		}

		proposal, hit, halted := a.enrich(ctx, logger, governor, ev, &consecutive)
		if halted {
			logger.Warn("too many rate limited reads, returning partial proposal list",
				zap.Int("enriched", len(d.Proposals)),
				zap.Int("discovered", len(events)),
			)
			d.Partial = true
			break
		}
		rateLimited = hit
		d.Proposals = append(d.Proposals, proposal)
	}

	SortProposals(d.Proposals)
	return d
}

// GetProposal scans every proposal of the governor and picks id. The cost
// is that of a full discovery.
func (a *Aggregator) GetProposal(ctx context.Context, governor common.Address, id *big.Int) (model.Proposal, error) {
	return a.DiscoverProposals(ctx, governor).Find(id)
}

// Find picks proposal id. A miss in an incomplete scan is reported as
// ErrDiscoveryIncomplete rather than not found.
func (d Discovery) Find(id *big.Int) (model.Proposal, error) {
	for _, p := range d.Proposals {
		if p.ID.Cmp(id) == 0 {
			return p, nil
		}
	}
	if d.Degraded || d.Partial {
		return model.Proposal{}, ErrDiscoveryIncomplete
	}
	return model.Proposal{}, model.ErrProposalNotFound
}

// SortProposals orders proposals by id, newest first.
func SortProposals(proposals []model.Proposal) {
	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].ID.Cmp(proposals[j].ID) > 0
	})
}

func (a *Aggregator) proposalEvents(ctx context.Context, governor common.Address, latest uint64) ([]contracts.ProposalCreated, uint64, error) {
	from := windowStart(latest, a.window)
	events, err := a.chain.ProposalCreatedLogs(ctx, governor, from, latest)
	if err == nil {
		return events, from, nil
	}
	if !ethrpc.IsRetryable(err) && !rangeTooWide(err) {
		return nil, 0, err
	}

	a.logger.Info("wide log query failed, retrying with the narrow window",
		zap.String("governor", governor.Hex()),
		zap.Uint64("window", a.fallbackWindow),
		zap.Error(err),
	)
	from = windowStart(latest, a.fallbackWindow)
	events, err = a.chain.ProposalCreatedLogs(ctx, governor, from, latest)
	if err != nil {
		return nil, 0, err
	}
	return events, from, nil
}

func windowStart(latest, window uint64) uint64 {
	if latest < window {
		return 0
	}
	return latest - window
}

var rangeLimitPatterns = []string{
	"block range",
	"range too large",
	"query returned more than",
	"exceed maximum block range",
}

func rangeTooWide(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, p := range rangeLimitPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// enrich reads the live fields of one proposal. A failed field keeps its
// default. consecutive counts rate limited field reads across proposals
// and is reset by any successful read; halted reports that it reached the
// limit and the proposal must be dropped.
func (a *Aggregator) enrich(ctx context.Context, logger *zap.Logger, governor common.Address, ev contracts.ProposalCreated, consecutive *int) (p model.Proposal, hit, halted bool) {
	p = proposalFromEvent(ev)
	id := ev.ProposalId

	fields := []struct {
		name  string
		fetch func() error
	}{
		{name: "state", fetch: func() error {
			state, err := a.chain.ProposalState(ctx, governor, id)
			if err == nil {
				p.State = state
			}
			return err
		}},
		{name: "votes", fetch: func() error {
			votes, err := a.chain.ProposalVotes(ctx, governor, id)
			if err == nil {
				p.Votes = votes
			}
			return err
		}},
		{name: "snapshot", fetch: func() error {
			snapshot, err := a.chain.ProposalSnapshot(ctx, governor, id)
			if err == nil {
				p.Snapshot = snapshot
			}
			return err
		}},
		{name: "deadline", fetch: func() error {
			deadline, err := a.chain.ProposalDeadline(ctx, governor, id)
			if err == nil {
				p.Deadline = deadline
			}
			return err
		}},
	}

	for _, f := range fields {
		err := f.fetch()
		if err == nil {
			*consecutive = 0
			continue
		}

		limited := ethrpc.IsRateLimited(err)
		a.metrics.ObserveFieldFailure(f.name, limited)
		p.Defaulted = append(p.Defaulted, f.name)
		if limited {
			hit = true
			*consecutive++
			if *consecutive >= a.maxConsecutiveRateLimit {
				return model.Proposal{}, hit, true
			}
		}
		logger.Warn("proposal field unavailable, using default",
			zap.String("proposal", id.String()),
			zap.String("field", f.name),
			zap.Bool("rate_limited", limited),
			zap.Error(err),
		)
	}
	return p, hit, false
}

func proposalFromEvent(ev contracts.ProposalCreated) model.Proposal {
	meta := ParseProposalDescription(ev.Description)
	return model.Proposal{
		ID:          ev.ProposalId,
		Proposer:    ev.Proposer,
		Targets:     ev.Targets,
		Values:      ev.Values,
		Calldatas:   ev.Calldatas,
		VoteStart:   ev.VoteStart,
		VoteEnd:     ev.VoteEnd,
		Description: ev.Description,
		Body:        meta.Description,
		State:       model.ProposalPending,
		Votes:       model.ZeroVotes(),
		Snapshot:    new(big.Int),
		Deadline:    new(big.Int),
		Type:        meta.Type,
		Title:       meta.Title,
		Summary:     meta.Summary,
		BlockNumber: ev.Raw.BlockNumber,
		TxHash:      ev.Raw.TxHash,
	}
}
