package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// ProposalHistory returns up to limit snapshots of one proposal, newest first.
func (r *Repository) ProposalHistory(ctx context.Context, governor common.Address, id *big.Int, limit int) ([]model.ProposalSnapshot, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("proposal_history", r.network, err, start)
	}()

	if id == nil {
		err = errors.New("proposal id is required")
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	const query = `
SELECT
	state,
	votes_against,
	votes_for,
	votes_abstain,
	block_number,
	title,
	observed_at
FROM proposal_snapshots
WHERE network = ? AND governor = ? AND proposal_id = ?
ORDER BY observed_at DESC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, string(r.network), governor.Hex(), id, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query proposal history: %w", err)
	}
	defer rows.Close()

	result := make([]model.ProposalSnapshot, 0, limit)
	for rows.Next() {
		s := model.ProposalSnapshot{Network: r.network, Governor: governor, ProposalID: new(big.Int).Set(id)}
		var state string
		if err = rows.Scan(&state, &s.Against, &s.For, &s.Abstain, &s.BlockNumber, &s.Title, &s.ObservedAt); err != nil {
			return nil, fmt.Errorf("scan proposal snapshot: %w", err)
		}
		if err = s.State.UnmarshalText([]byte(state)); err != nil {
			return nil, fmt.Errorf("decode proposal state: %w", err)
		}
		result = append(result, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposal history: %w", err)
	}

	return result, nil
}
