package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name  string
		pool  []string
		count int
		want  int
	}{
		{"fewer than pool", pool, 2, 2},
		{"exact pool", pool, 5, 5},
		{"more than pool", pool, 10, 5},
		{"empty pool", nil, 3, 0},
		{"zero count", pool, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.pool, tt.count)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)

			seen := make(map[string]bool)
			for _, v := range got {
				assert.False(t, seen[v], "duplicate %q", v)
				seen[v] = true
				assert.Contains(t, tt.pool, v)
			}
		})
	}
}

func TestSelect_DoesNotMutatePool(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8}
	orig := append([]int(nil), pool...)

	for i := 0; i < 20; i++ {
		_, err := Select(pool, 3)
		require.NoError(t, err)
	}
	assert.Equal(t, orig, pool)
}

func TestSelect_FullPoolIsPermutation(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5}
	got, err := Select(pool, len(pool))
	require.NoError(t, err)
	assert.ElementsMatch(t, pool, got)
}

func TestSelect_EveryElementReachable(t *testing.T) {
	pool := []int{0, 1, 2, 3}
	hits := make([]int, len(pool))
	for i := 0; i < 2000; i++ {
		got, err := Select(pool, 1)
		require.NoError(t, err)
		hits[got[0]]++
	}
	for i, h := range hits {
		assert.Greater(t, h, 0, "element %d never selected", i)
	}
}
