package follower

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/governance"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// follow records the proposals of one community. Proposals whose tally or
// state could not be read are skipped so defaults never look like a reorg.
func (s *Service) follow(ctx context.Context, c model.Community) error {
	if c.Governor == (common.Address{}) {
		return nil
	}
	logger := s.logger.With(zap.String("governor", c.Governor.Hex()))

	previous, err := s.repo.LatestProposalTallies(ctx, c.Governor)
	if err != nil {
		return fmt.Errorf("community %s: load tallies: %w", c.ID, err)
	}
	known := make(map[string]model.ProposalSnapshot, len(previous))
	for _, p := range previous {
		known[p.ProposalID.String()] = p
	}

	d := s.governance.DiscoverProposals(ctx, c.Governor)
	if d.Degraded {
		return fmt.Errorf("community %s: %w", c.ID, governance.ErrDiscoveryIncomplete)
	}

	now := s.now().UTC()
	var decreases []model.TallyDecrease
	for _, p := range d.Proposals {
		prev, seen := known[p.ID.String()]
		if !seen {
			s.announce(ctx, logger, c, p)
		}
		if p.HasDefault("votes") || p.HasDefault("state") {
			continue
		}

		total := p.Votes.Total()
		if seen {
			if prevTotal := tallyOf(prev); total.Cmp(prevTotal) < 0 {
				dec := model.TallyDecrease{
					Network:     s.network,
					Governor:    c.Governor,
					ProposalID:  p.ID,
					Previous:    prevTotal,
					Observed:    total,
					BlockNumber: d.ToBlock,
					DetectedAt:  now,
				}
				decreases = append(decreases, dec)
				s.warnDecrease(ctx, logger, c, dec)
			}
			if unchanged(prev, p) {
				continue
			}
		}

		if err := s.writer.Add(ctx, s.snapshotOf(c, p, d.ToBlock, now)); err != nil {
			return fmt.Errorf("community %s: queue snapshot: %w", c.ID, err)
		}
	}

	if len(decreases) > 0 {
		if err := s.repo.InsertTallyDecreases(ctx, decreases); err != nil {
			return fmt.Errorf("community %s: record tally decreases: %w", c.ID, err)
		}
	}
	if d.Partial {
		logger.Info("partial discovery, remaining proposals follow next cycle", zap.Int("enriched", len(d.Proposals)))
	}
	return nil
}

// announce posts proposals that are still open the first time they are seen.
func (s *Service) announce(ctx context.Context, logger *zap.Logger, c model.Community, p model.Proposal) {
	if s.notifier == nil || p.HasDefault("state") || p.State.IsCompleted() {
		return
	}
	key := c.Governor.Hex() + "/" + p.ID.String()
	s.mu.Lock()
	_, done := s.announced[key]
	if !done {
		s.announced[key] = struct{}{}
	}
	s.mu.Unlock()
	if done {
		return
	}

	err := s.notifier.ProposalCreated(ctx, c, p)
	s.metrics.ObserveNotification(err)
	if err != nil {
		logger.Warn("proposal announcement failed", zap.Stringer("proposal", p.ID), zap.Error(err))
		s.mu.Lock()
		delete(s.announced, key)
		s.mu.Unlock()
	}
}

func (s *Service) warnDecrease(ctx context.Context, logger *zap.Logger, c model.Community, dec model.TallyDecrease) {
	s.metrics.ObserveTallyDecrease()
	logger.Warn("proposal tally decreased",
		zap.Stringer("proposal", dec.ProposalID),
		zap.Stringer("previous", dec.Previous),
		zap.Stringer("observed", dec.Observed),
	)
	if s.notifier == nil {
		return
	}
	err := s.notifier.TallyDecreased(ctx, c, dec)
	s.metrics.ObserveNotification(err)
	if err != nil {
		logger.Warn("tally decrease notification failed", zap.Error(err))
	}
}

func (s *Service) snapshotOf(c model.Community, p model.Proposal, block uint64, now time.Time) model.ProposalSnapshot {
	return model.ProposalSnapshot{
		Network:     s.network,
		Governor:    c.Governor,
		ProposalID:  p.ID,
		State:       p.State,
		Against:     p.Votes.Against,
		For:         p.Votes.For,
		Abstain:     p.Votes.Abstain,
		BlockNumber: block,
		Title:       p.Title,
		ObservedAt:  now,
	}
}

func tallyOf(s model.ProposalSnapshot) *big.Int {
	return model.ProposalVotes{Against: s.Against, For: s.For, Abstain: s.Abstain}.Total()
}

func unchanged(prev model.ProposalSnapshot, p model.Proposal) bool {
	return prev.State == p.State &&
		cmpEq(prev.Against, p.Votes.Against) &&
		cmpEq(prev.For, p.Votes.For) &&
		cmpEq(prev.Abstain, p.Votes.Abstain)
}

func cmpEq(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Cmp(b) == 0
}
