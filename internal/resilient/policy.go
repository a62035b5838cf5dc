package resilient

import (
	"time"

	internalclock "github.com/Tribo-Hackathon/Tribo/internal/clock"
	"github.com/Tribo-Hackathon/Tribo/internal/ethrpc"
)

// Policy decides which failures are retried and how long to wait.
type Policy struct {
	MaxRetries  int
	BaseDelay   time.Duration
	IsRetryable func(error) bool
}

// DefaultPolicy retries rate limits and unavailable endpoints three times
// with 1s, 2s and 4s delays.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:  defaultMaxRetries,
		BaseDelay:   defaultBaseDelay,
		IsRetryable: ethrpc.IsRetryable,
	}
}

// Backoff returns BaseDelay * 2^attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	return internalclock.Exponential(p.BaseDelay, attempt)
}

func (p Policy) retryable(err error) bool {
	if p.IsRetryable == nil {
		return ethrpc.IsRetryable(err)
	}
	return p.IsRetryable(err)
}
