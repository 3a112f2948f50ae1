package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

func transferTo(fp uint64, dest types.DeviceID, bytes uint64, start, end time.Duration) *types.DataOp {
	return &types.DataOp{
		Kind: types.OpTransferToDevice, Fingerprint: fp, DestDevice: dest,
		Bytes: bytes, StartTime: start, EndTime: end,
	}
}

// Scenario 1: two identical transfers land in one duplicate group with
// calls=2 and total_time=18ns (§8 end-to-end scenario 1).
func TestDuplicates_Scenario1(t *testing.T) {
	const fpH = 0xABCDEF
	a := transferTo(fpH, 0, 4, 0, 10)
	b := transferTo(fpH, 0, 4, 20, 28)

	ranked := Duplicates([]*types.DataOp{a, b}, 8)
	require.Equal(t, 1, ranked.Len())

	entries := ranked.Descending(0)
	require.Len(t, entries, 1)
	assert.Equal(t, 18*time.Nanosecond, entries[0].TotalTime)
	assert.Equal(t, []*types.DataOp{a, b}, entries[0].Group.Members)
}

// B1: a single-element group is never reported.
func TestDuplicates_SingleTransferNotReported(t *testing.T) {
	a := transferTo(0xABCDEF, 0, 4, 0, 10)
	ranked := Duplicates([]*types.DataOp{a}, 8)
	assert.Equal(t, 0, ranked.Len())
}

// L3: equal fingerprint and dest device implies same group.
func TestDuplicates_FingerprintEqualityGroupsTogether(t *testing.T) {
	a := transferTo(42, 1, 8, 0, 5)
	b := transferTo(42, 1, 8, 10, 12)
	c := transferTo(99, 1, 8, 20, 22) // different fingerprint

	ranked := Duplicates([]*types.DataOp{a, b, c}, 8)
	require.Equal(t, 1, ranked.Len())
	assert.ElementsMatch(t, []*types.DataOp{a, b}, ranked.Descending(0)[0].Group.Members)
}

// B3: zero-byte transfers are grouped like any other.
func TestDuplicates_ZeroByteTransfer(t *testing.T) {
	a := transferTo(7, 0, 0, 0, 1)
	b := transferTo(7, 0, 0, 2, 3)
	ranked := Duplicates([]*types.DataOp{a, b}, 8)
	assert.Equal(t, 1, ranked.Len())
}
