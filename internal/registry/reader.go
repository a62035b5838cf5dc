// Package registry reads community records from the registry contract.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/contracts"
	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/pkg/safe"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Reader lists and looks up communities. Lookups by creator scan the
// full list because the registry has no creator index, so they cost
// O(communities).
type Reader struct {
	chain   Chain
	address common.Address
	logger  *zap.Logger
}

func NewReader(chain Chain, address common.Address, logger *zap.Logger) (*Reader, error) {
	if chain == nil {
		return nil, errors.New("chain reader is required")
	}
	if address == (common.Address{}) {
		return nil, errors.New("registry address is required")
	}
	return &Reader{
		chain:   chain,
		address: address,
		logger:  logger.Named("registry"),
	}, nil
}

// Address returns the registry contract address.
func (r *Reader) Address() common.Address {
	return r.address
}

// ListCommunities returns every registered community. It returns an
// empty list when the registry cannot be read.
func (r *Reader) ListCommunities(ctx context.Context) []model.Community {
	records, err := r.chain.AllCommunities(ctx, r.address)
	if err != nil {
		r.logger.Warn("listing communities failed, returning none", zap.Error(err))
		return []model.Community{}
	}
	return r.convertAll(records)
}

// GetCommunity returns model.ErrCommunityNotFound for unknown ids. Other
// errors mean the registry could not be read.
func (r *Reader) GetCommunity(ctx context.Context, id *big.Int) (model.Community, error) {
	if id == nil || id.Sign() < 0 {
		return model.Community{}, model.ErrCommunityNotFound
	}

	record, err := r.chain.Community(ctx, r.address, id)
	if err != nil {
		if ethrpc.IsReverted(err) {
			return model.Community{}, model.ErrCommunityNotFound
		}
		return model.Community{}, fmt.Errorf("get community %s: %w", id, err)
	}

	community, err := toModel(record)
	if err != nil {
		return model.Community{}, fmt.Errorf("get community %s: %w", id, err)
	}
	if community.IsZero() {
		return model.Community{}, model.ErrCommunityNotFound
	}
	return community, nil
}

// FindByCreator returns the first community created by addr.
func (r *Reader) FindByCreator(ctx context.Context, addr common.Address) (model.Community, error) {
	records, err := r.chain.AllCommunities(ctx, r.address)
	if err != nil {
		return model.Community{}, fmt.Errorf("find community by creator %s: %w", addr.Hex(), err)
	}
	for _, community := range r.convertAll(records) {
		if community.CreatedBy(addr) {
			return community, nil
		}
	}
	return model.Community{}, model.ErrCommunityNotFound
}

// HasCreatedCommunity is false when the registry cannot be read.
func (r *Reader) HasCreatedCommunity(ctx context.Context, addr common.Address) bool {
	_, err := r.FindByCreator(ctx, addr)
	if err != nil && !errors.Is(err, model.ErrCommunityNotFound) {
		r.logger.Warn("creator lookup failed", zap.String("creator", addr.Hex()), zap.Error(err))
	}
	return err == nil
}

func (r *Reader) convertAll(records []contracts.RegistryCommunity) []model.Community {
	out := make([]model.Community, 0, len(records))
	for _, record := range records {
		community, err := toModel(record)
		if err != nil {
			r.logger.Warn("skipping community record", zap.Error(err))
			continue
		}
		out = append(out, community)
	}
	return out
}

func toModel(record contracts.RegistryCommunity) (model.Community, error) {
	createdAt, err := safe.Int64(record.CreatedAt)
	if err != nil {
		return model.Community{}, fmt.Errorf("community created at: %w", err)
	}
	id := record.CommunityId
	if id == nil {
		id = new(big.Int)
	}
	return model.Community{
		ID:          id,
		Creator:     record.Creator,
		NFT:         record.Nft,
		Governor:    record.Governor,
		Timelock:    record.Timelock,
		MetadataURI: record.MetadataURI,
		CreatedAt:   time.Unix(createdAt, 0).UTC(),
	}, nil
}
