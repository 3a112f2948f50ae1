package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

func transferIn(addr types.Addr, device types.DeviceID, start, end time.Duration) *types.DataOp {
	return &types.DataOp{Kind: types.OpTransferToDevice, SrcAddr: addr, DestDevice: device, Bytes: 4, StartTime: start, EndTime: end}
}

// Scenario 5: the first of two transfers to the same address is superseded
// before any device region consumes it; the second is used by the
// following region (§8 end-to-end scenario 5).
func TestUnusedTransfers_Scenario5(t *testing.T) {
	first := transferIn(0x1, 0, 0, 1)
	second := transferIn(0x1, 0, 10, 11)
	regions := map[types.DeviceID][]types.TargetRegion{
		0: {{Device: 0, StartTime: 20, EndTime: 30}},
	}

	ranked := UnusedTransfers([]*types.DataOp{first, second}, regions)
	entries := ranked.Descending(0)
	require.Len(t, entries, 1)
	assert.Same(t, first, entries[0].Group.Members[0])
}

func TestUnusedTransfers_NoRegionEverIsUnused(t *testing.T) {
	t1 := transferIn(0x1, 0, 0, 1)
	ranked := UnusedTransfers([]*types.DataOp{t1}, map[types.DeviceID][]types.TargetRegion{})
	entries := ranked.Descending(0)
	require.Len(t, entries, 1)
	assert.Same(t, t1, entries[0].Group.Members[0])
}

func TestUnusedTransfers_ConsumedByRegionClearsCandidate(t *testing.T) {
	t1 := transferIn(0x1, 0, 5, 6)
	regions := map[types.DeviceID][]types.TargetRegion{
		0: {{Device: 0, StartTime: 0, EndTime: 10}},
	}
	ranked := UnusedTransfers([]*types.DataOp{t1}, regions)
	assert.Equal(t, 0, ranked.Len())
}
