package clickhouse

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
)

// InsertProposalSnapshots stores tally snapshot rows in ClickHouse.
func (r *Repository) InsertProposalSnapshots(ctx context.Context, snapshots []model.ProposalSnapshot) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_proposal_snapshots", r.network, err, start)
	}()

	if len(snapshots) == 0 {
		return nil
	}

	const query = `
INSERT INTO proposal_snapshots (
	network,
	governor,
	proposal_id,
	state,
	votes_against,
	votes_for,
	votes_abstain,
	block_number,
	title,
	observed_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare proposal snapshots batch: %w", err)
	}

	for _, s := range snapshots {
		network := s.Network
		if network == "" {
			network = r.network
		}
		if err = batch.Append(
			string(network),
			s.Governor.Hex(),
			orZero(s.ProposalID),
			s.State.String(),
			orZero(s.Against),
			orZero(s.For),
			orZero(s.Abstain),
			s.BlockNumber,
			s.Title,
			s.ObservedAt.UTC(),
		); err != nil {
			return fmt.Errorf("append proposal snapshot: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert proposal snapshots: %w", err)
	}
	return nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
