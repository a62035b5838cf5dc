package resilient

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Rotator moves reads to the next upstream endpoint.
	Rotator interface {
		Rotate() int
	}
	Metrics interface {
		Observe(operation string, err error, started time.Time)
		ObserveCache(operation string, hit bool)
		ObserveRetry(operation string, reason string)
	}
)
