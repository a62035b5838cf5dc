package chain

import (
	"context"
	"math/big"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/resilient"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ProposalCreatedLogs runs one eth_getLogs over [from, to]. Logs that do
// not decode are skipped.
func (r *Reader) ProposalCreatedLogs(ctx context.Context, governor common.Address, from, to uint64) ([]contracts.ProposalCreated, error) {
	logs, err := r.filterLogs(ctx, "governor.proposal_created_logs", governor, contracts.EventID(contracts.GovernorABI, "ProposalCreated"), from, to)
	if err != nil {
		return nil, err
	}

	events := make([]contracts.ProposalCreated, 0, len(logs))
	for _, log := range logs {
		ev, err := contracts.DecodeProposalCreated(log)
		if err != nil {
			r.logger.Warn("skipping undecodable ProposalCreated log",
				zap.String("tx", log.TxHash.Hex()),
				zap.Uint("index", log.Index),
				zap.Error(err),
			)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// VoteCastLogs returns the VoteCast events of one proposal. The proposal
// id is not indexed so the filtering happens here.
func (r *Reader) VoteCastLogs(ctx context.Context, governor common.Address, id *big.Int, from, to uint64) ([]contracts.VoteCast, error) {
	logs, err := r.filterLogs(ctx, "governor.vote_cast_logs", governor, contracts.EventID(contracts.GovernorABI, "VoteCast"), from, to)
	if err != nil {
		return nil, err
	}

	var events []contracts.VoteCast
	for _, log := range logs {
		ev, err := contracts.DecodeVoteCast(log)
		if err != nil {
			r.logger.Warn("skipping undecodable VoteCast log", zap.String("tx", log.TxHash.Hex()), zap.Error(err))
			continue
		}
		if ev.ProposalId.Cmp(id) != 0 {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (r *Reader) filterLogs(ctx context.Context, operation string, addr common.Address, topic common.Hash, from, to uint64) ([]types.Log, error) {
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{addr},
		Topics:    [][]common.Hash{{topic}},
	}
	return resilient.Do(ctx, r.client, operation, func(ctx context.Context) ([]types.Log, error) {
		return r.transport.FilterLogs(ctx, q)
	})
}
