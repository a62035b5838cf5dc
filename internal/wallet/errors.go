package wallet

import (
	"errors"
	"strings"

	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
	"github.com/ethereum/go-ethereum/core"
)

// Category is the user facing class of a failed write.
type Category string

const (
	CategoryRejected          Category = "rejected"
	CategoryInsufficientFunds Category = "insufficient_funds"
	CategoryReverted          Category = "reverted"
	CategoryGasEstimation     Category = "gas_estimation"
	CategoryUnknown           Category = "unknown"
)

var categoryMessages = map[Category]string{
	CategoryRejected:          "Transaction was rejected by user",
	CategoryInsufficientFunds: "Insufficient funds to pay for gas",
	CategoryReverted:          "Transaction reverted",
	CategoryGasEstimation:     "Gas estimation failed",
	CategoryUnknown:           "Transaction failed",
}

// Message is the human readable form of the category.
func (c Category) Message() string {
	if msg, ok := categoryMessages[c]; ok {
		return msg
	}
	return categoryMessages[CategoryUnknown]
}

// Error wraps a failed write. Writes are never retried.
type Error struct {
	Category Category
	// Reason is the decoded custom error or revert string, if any.
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return e.Category.Message() + " (" + e.Reason + "): " + e.Err.Error()
	}
	return e.Category.Message() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a signing or submission failure to a Category.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	if errors.Is(err, core.ErrInsufficientFunds) || errors.Is(err, core.ErrInsufficientFundsForTransfer) {
		return CategoryInsufficientFunds
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "user rejected"), strings.Contains(msg, "user denied"):
		return CategoryRejected
	case strings.Contains(msg, "insufficient funds"):
		return CategoryInsufficientFunds
	case ethrpc.IsReverted(err):
		return CategoryReverted
	case strings.Contains(msg, "gas"):
		return CategoryGasEstimation
	}
	return CategoryUnknown
}

// AsError returns the wallet error carried by err.
func AsError(err error) (*Error, bool) {
	var walletErr *Error
	if errors.As(err, &walletErr) {
		return walletErr, true
	}
	return nil, false
}
