package factory

import (
	"context"

	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Receipts interface {
		TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	}
	Wallet interface {
		Address(ctx context.Context) (common.Address, error)
		WriteContract(ctx context.Context, req wallet.WriteRequest) (common.Hash, error)
	}
)
