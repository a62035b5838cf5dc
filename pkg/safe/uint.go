// Package safe provides numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
	"math/big"
)

type integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

func negative[T integer](v T) bool {
	return v < 0
}

// Uint32 converts an integer to uint32 with range validation.
func Uint32[T integer](v T) (uint32, error) {
	if negative(v) || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Int64 converts an integer to int64 with range validation.
func Int64[T integer](v T) (int64, error) {
	if !negative(v) && uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}

// BigUint64 converts a block number or timestamp carried as uint256.
// Nil converts to zero.
func BigUint64(v *big.Int) (uint64, error) {
	if v == nil {
		return 0, nil
	}
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("value %s out of uint64 range", v.String())
	}
	return v.Uint64(), nil
}
