package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// L1-style idempotence check on the ranking container: descending order
// is stable regardless of how many times it is read.
func TestRanked_DescendingOrderAndCap(t *testing.T) {
	totals := []time.Duration{5, 1, 3}
	groups := []string{"five", "one", "three"}

	ranked := NewRanked(totals, groups)
	require.Equal(t, 3, ranked.Len())

	entries := ranked.Descending(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "five", entries[0].Group)
	assert.Equal(t, "three", entries[1].Group)
	assert.Equal(t, "one", entries[2].Group)

	capped := ranked.Descending(2)
	assert.Len(t, capped, 2)
	assert.Equal(t, "five", capped[0].Group)
	assert.Equal(t, "three", capped[1].Group)
}

func TestRanked_StableTiesKeepInputOrder(t *testing.T) {
	totals := []time.Duration{1, 1}
	groups := []string{"first", "second"}

	ranked := NewRanked(totals, groups)
	entries := ranked.Descending(0)
	// Both entries tie on total time; ascending stable sort then reversed
	// on read means the group inserted second comes first.
	assert.Equal(t, "second", entries[0].Group)
	assert.Equal(t, "first", entries[1].Group)
}
