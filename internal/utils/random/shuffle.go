package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffle performs a cryptographically secure shuffle of the slice.
func Shuffle[T any](slice []T) error {
	n := len(slice)
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to generate random number: %w", err)
		}
		j := int(jBig.Int64())
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}

// Select draws min(count, len(pool)) distinct elements uniformly at random.
// The pool is not modified.
func Select[T any](pool []T, count int) ([]T, error) {
	if count <= 0 || len(pool) == 0 {
		return []T{}, nil
	}
	shuffled, err := Shuffled(pool)
	if err != nil {
		return nil, err
	}
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count], nil
}

// Shuffled returns a shuffled copy of the pool.
func Shuffled[T any](pool []T) ([]T, error) {
	out := make([]T, len(pool))
	copy(out, pool)
	if err := Shuffle(out); err != nil {
		return nil, err
	}
	return out, nil
}
