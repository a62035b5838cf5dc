package governance

import "time"

const (
	defaultWindow                  = uint64(100_000)
	defaultFallbackWindow          = uint64(10_000)
	defaultMaxConsecutiveRateLimit = 3
	defaultProposalDelay           = 200 * time.Millisecond
	defaultRateLimitDelay          = 500 * time.Millisecond
	defaultReceiptPollInterval     = 2 * time.Second

	untitledProposal = "Untitled Proposal"
)

const (
	outcomeComplete = "complete"
	outcomePartial  = "partial"
	outcomeDegraded = "degraded"
)
