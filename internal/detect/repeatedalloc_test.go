package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

func allocPair(addr types.Addr, device types.DeviceID, bytes uint64, allocStart, allocEnd, delStart, delEnd time.Duration) types.AllocationPair {
	return types.AllocationPair{
		Alloc:  &types.DataOp{Kind: types.OpAlloc, SrcAddr: addr, DestAddr: addr, DestDevice: device, Bytes: bytes, StartTime: allocStart, EndTime: allocEnd},
		Delete: &types.DataOp{Kind: types.OpDelete, SrcAddr: addr, DestAddr: addr, SrcDevice: device, Bytes: bytes, StartTime: delStart, EndTime: delEnd},
	}
}

// Scenario 3: two alloc/delete pairs at the same address/device/size form
// one repeated-alloc group of size 2 (§8 end-to-end scenario 3).
func TestRepeatedAllocs_Scenario3(t *testing.T) {
	p1 := allocPair(0x1, 0, 1024, 0, 2, 3, 4)
	p2 := allocPair(0x1, 0, 1024, 5, 7, 8, 9)

	ranked := RepeatedAllocs([]types.AllocationPair{p1, p2})
	entries := ranked.Descending(0)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Group.Members, 2)
}

// B1: a single-element group is never reported.
func TestRepeatedAllocs_SinglePairNotReported(t *testing.T) {
	p1 := allocPair(0x1, 0, 1024, 0, 2, 3, 4)
	ranked := RepeatedAllocs([]types.AllocationPair{p1})
	assert.Equal(t, 0, ranked.Len())
}

func TestRepeatedAllocs_DifferentSizeNotGrouped(t *testing.T) {
	p1 := allocPair(0x1, 0, 1024, 0, 2, 3, 4)
	p2 := allocPair(0x1, 0, 2048, 5, 7, 8, 9)
	ranked := RepeatedAllocs([]types.AllocationPair{p1, p2})
	assert.Equal(t, 0, ranked.Len())
}
