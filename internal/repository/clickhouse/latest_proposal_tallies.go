package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// LatestProposalTallies returns the most recent snapshot of every proposal
// recorded for governor.
func (r *Repository) LatestProposalTallies(ctx context.Context, governor common.Address) ([]model.ProposalSnapshot, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("latest_proposal_tallies", r.network, err, start)
	}()

	const query = `
SELECT
	proposal_id,
	argMax(state, observed_at),
	argMax(votes_against, observed_at),
	argMax(votes_for, observed_at),
	argMax(votes_abstain, observed_at),
	argMax(block_number, observed_at),
	argMax(title, observed_at),
	max(observed_at)
FROM proposal_snapshots
WHERE network = ? AND governor = ?
GROUP BY proposal_id
ORDER BY proposal_id`

	rows, err := r.conn.Query(ctx, query, string(r.network), governor.Hex())
	if err != nil {
		return nil, fmt.Errorf("query latest proposal tallies: %w", err)
	}
	defer rows.Close()

	var result []model.ProposalSnapshot
	for rows.Next() {
		s := model.ProposalSnapshot{Network: r.network, Governor: governor}
		var state string
		if err = rows.Scan(&s.ProposalID, &state, &s.Against, &s.For, &s.Abstain, &s.BlockNumber, &s.Title, &s.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan latest proposal tally: %w", err)
		}
		if err = s.State.UnmarshalText([]byte(state)); err != nil {
			return nil, fmt.Errorf("decode proposal state: %w", err)
		}
		result = append(result, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest proposal tallies: %w", err)
	}

	return result, nil
}
