package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
)

// InsertTallyDecreases records reorg evidence found by the follower.
func (r *Repository) InsertTallyDecreases(ctx context.Context, decreases []model.TallyDecrease) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_tally_decreases", r.network, err, start)
	}()

	if len(decreases) == 0 {
		return nil
	}

	const query = `
INSERT INTO proposal_tally_decreases (
	network,
	governor,
	proposal_id,
	previous_total,
	observed_total,
	block_number,
	detected_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare tally decreases batch: %w", err)
	}

	for _, d := range decreases {
		if err = batch.Append(
			string(r.network),
			d.Governor.Hex(),
			orZero(d.ProposalID),
			orZero(d.Previous),
			orZero(d.Observed),
			d.BlockNumber,
			d.DetectedAt.UTC(),
		); err != nil {
			return fmt.Errorf("append tally decrease: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert tally decreases: %w", err)
	}
	return nil
}
