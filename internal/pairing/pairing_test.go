package pairing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

func op(kind types.OpKind, addr types.Addr, device types.DeviceID, bytes uint64, start, end time.Duration) *types.DataOp {
	return &types.DataOp{
		Kind: kind, SrcAddr: addr, DestAddr: addr, SrcDevice: device, DestDevice: device,
		Bytes: bytes, StartTime: start, EndTime: end,
	}
}

// Scenario 6: three allocs and one delete on device 0 should peak at 250
// bytes after the third allocation (§8 end-to-end scenario 6).
func TestPair_PeakMemory(t *testing.T) {
	ops := []*types.DataOp{
		op(types.OpAlloc, 0x1, 0, 100, 0, 1),
		op(types.OpAlloc, 0x2, 0, 50, 2, 3),
		op(types.OpDelete, 0x1, 0, 100, 4, 5),
		op(types.OpAlloc, 0x3, 0, 200, 6, 7),
	}

	// The 50- and 200-byte allocations are never deleted, so Pair also
	// reports them as leaked.
	result, err := Pair(ops)
	var leaked *UnmatchedAllocError
	require.ErrorAs(t, err, &leaked)
	assert.Equal(t, uint64(250), result.Peak[0])
}

func TestPair_MatchesAllocToDelete(t *testing.T) {
	alloc := op(types.OpAlloc, 0x1, 0, 1024, 0, 2)
	del := op(types.OpDelete, 0x1, 0, 1024, 3, 4)

	result, err := Pair([]*types.DataOp{alloc, del})
	require.NoError(t, err)
	require.Len(t, result.Pairs, 1)
	assert.Same(t, alloc, result.Pairs[0].Alloc)
	assert.Same(t, del, result.Pairs[0].Delete)
	assert.Equal(t, uint64(1024), result.Peak[0])
}

func TestPair_UnmatchedDeleteIsWarningNotError(t *testing.T) {
	del := op(types.OpDelete, 0x1, 0, 1024, 0, 1)

	result, err := Pair([]*types.DataOp{del})
	require.Error(t, err)
	assert.Empty(t, result.Pairs)

	var unmatched *UnmatchedDeleteError
	assert.ErrorAs(t, err, &unmatched)
}

func TestPair_UnmatchedAllocAtEndOfRun(t *testing.T) {
	alloc := op(types.OpAlloc, 0x1, 0, 1024, 0, 1)

	result, err := Pair([]*types.DataOp{alloc})
	require.Error(t, err)
	assert.Empty(t, result.Pairs)

	var unmatched *UnmatchedAllocError
	assert.ErrorAs(t, err, &unmatched)
}

// I2: allocated[device] never negative; peak[device] >= allocated[device]
// at every point is implicit in peak being a running max.
func TestPair_PeakNeverLessThanFinalAllocated(t *testing.T) {
	ops := []*types.DataOp{
		op(types.OpAlloc, 0x1, 0, 100, 0, 1),
		op(types.OpDelete, 0x1, 0, 100, 2, 3),
	}
	result, err := Pair(ops)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Peak[0], uint64(0))
}
