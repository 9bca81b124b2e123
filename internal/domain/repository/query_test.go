package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgeBucket(t *testing.T) {
	b, err := ParseAgeBucket(" 6-10 ")
	require.NoError(t, err)
	assert.True(t, b.Contains(6))
	assert.True(t, b.Contains(10))
	assert.False(t, b.Contains(11))

	open, err := ParseAgeBucket("11+")
	require.NoError(t, err)
	assert.True(t, open.Contains(400))
	assert.False(t, open.Contains(10))

	_, err = ParseAgeBucket("7-9")
	assert.Error(t, err)
}

func TestAgeBuckets_Contiguos(t *testing.T) {
	// Cada día de 0 a 30 cae en exactamente un bucket.
	for d := 0; d <= 30; d++ {
		n := 0
		for _, b := range AgeBuckets {
			if b.Contains(d) {
				n++
			}
		}
		assert.Equal(t, 1, n, "día %d", d)
	}
}

func TestSortAllowed(t *testing.T) {
	assert.True(t, SortAllowed(ShipmentSortFields, "cost"))
	assert.False(t, SortAllowed(ShipmentSortFields, "cost; DROP TABLE shipments"))
}
