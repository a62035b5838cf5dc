package ethrpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// Kind is the retry classification of an upstream failure.
type Kind int

const (
	KindOther Kind = iota
	KindRateLimited
	KindUnavailable
	KindReverted
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindReverted:
		return "reverted"
	default:
		return "other"
	}
}

var (
	rateLimitCodes = map[int]struct{}{
		-32005: {},
		-32016: {},
		-32029: {},
	}
	unavailableCodes = map[int]struct{}{
		-32011: {},
	}
	rateLimitPatterns = []string{
		"429",
		"rate limit",
		"over rate limit",
		"too many requests",
		"request limit",
	}
	unavailablePatterns = []string{
		"502",
		"503",
		"504",
		"timeout",
		"timed out",
		"no backend",
		"bad gateway",
		"service unavailable",
		"connection reset",
	}
	revertPatterns = []string{
		"execution reverted",
		"revert",
	}
)

// Classify inspects err and the go-ethereum error types it wraps.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, context.Canceled) {
		return KindOther
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests:
			return KindRateLimited
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return KindUnavailable
		}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if _, ok := rateLimitCodes[rpcErr.ErrorCode()]; ok {
			return KindRateLimited
		}
		if _, ok := unavailableCodes[rpcErr.ErrorCode()]; ok {
			return KindUnavailable
		}
		if rpcErr.ErrorCode() == 3 {
			return KindReverted
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, rateLimitPatterns):
		return KindRateLimited
	case containsAny(msg, revertPatterns):
		return KindReverted
	case containsAny(msg, unavailablePatterns):
		return KindUnavailable
	}
	return KindOther
}

// IsRetryable reports failures that a read may retry on another endpoint.
func IsRetryable(err error) bool {
	switch Classify(err) {
	case KindRateLimited, KindUnavailable:
		return true
	default:
		return false
	}
}

func IsRateLimited(err error) bool {
	return Classify(err) == KindRateLimited
}

func IsUnavailable(err error) bool {
	return Classify(err) == KindUnavailable
}

func IsReverted(err error) bool {
	return Classify(err) == KindReverted
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
