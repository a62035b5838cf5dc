// Package controller keeps per resource load state for the API: one fetch
// at a time per resource, a cooldown after failures and a user facing
// error category.
package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/community"
	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
	"github.com/Tribo-Hackathon/Tribo/internal/factory"
	"github.com/Tribo-Hackathon/Tribo/internal/governance"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/Tribo-Hackathon/Tribo/internal/wallet"
)

// Category is the user visible class of a failure. The three classes are
// never merged.
type Category string

const (
	CategoryNone         Category = ""
	CategoryUnavailable  Category = "unavailable"
	CategoryNotFound     Category = "not_found"
	CategoryActionFailed Category = "action_failed"
)

var notFoundErrors = []error{
	model.ErrCommunityNotFound,
	model.ErrProposalNotFound,
}

// actionErrors are rejections of a write that retrying will not fix.
var actionErrors = []error{
	wallet.ErrNoWallet,
	governance.ErrInvalidSupport,
	governance.ErrInvalidProposalID,
	governance.ErrTransactionFailed,
	governance.ErrInvalidDelegatee,
	governance.ErrTitleRequired,
	governance.ErrInvalidRecipient,
	governance.ErrInvalidAmount,
	governance.ErrNoActions,
	governance.ErrMismatchedActions,
	governance.ErrInvalidValue,
	governance.ErrUnsupportedProposal,
	community.ErrPriceFeedUnavailable,
	community.ErrIncorrectPayment,
	factory.ErrNameRequired,
	factory.ErrSymbolRequired,
	factory.ErrInvalidVotingPeriod,
	factory.ErrDeploymentFailed,
	factory.ErrNoDeploymentEvent,
	ErrActionInFlight,
}

// Categorize maps err to its user visible class. Errors that are neither
// a missing entity nor a rejected action are provider trouble.
func Categorize(err error) Category {
	if err == nil {
		return CategoryNone
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return CategoryNotFound
		}
	}
	if _, ok := wallet.AsError(err); ok {
		return CategoryActionFailed
	}
	for _, target := range actionErrors {
		if errors.Is(err, target) {
			return CategoryActionFailed
		}
	}
	if ethrpc.IsReverted(err) {
		return CategoryActionFailed
	}
	return CategoryUnavailable
}

// Message renders err for display. retryIn is only used for the
// unavailable category.
func Message(err error, retryIn time.Duration) string {
	switch Categorize(err) {
	case CategoryNone:
		return ""
	case CategoryNotFound:
		if errors.Is(err, model.ErrProposalNotFound) {
			return "Proposal not found."
		}
		return "Community not found."
	case CategoryActionFailed:
		if werr, ok := wallet.AsError(err); ok {
			return werr.Category.Message()
		}
		return err.Error()
	default:
		return fmt.Sprintf("Data is temporarily unavailable, retrying automatically in %d seconds.", seconds(retryIn))
	}
}

// seconds rounds up so a pending retry never shows as 0.
func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
