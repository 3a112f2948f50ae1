package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// Scenario 4: an alloc/delete pair with zero device regions is unused,
// crediting both ops (§8 end-to-end scenario 4).
func TestUnusedAllocs_Scenario4(t *testing.T) {
	p := allocPair(0x1, 0, 64, 0, 1, 9, 10)
	ranked := UnusedAllocs([]types.AllocationPair{p}, map[types.DeviceID][]types.TargetRegion{})
	entries := ranked.Descending(0)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Group.Members, 1)
}

// B2: a transfer/region boundary touch counts as used (closed interval);
// here an alloc lifetime that exactly touches a region boundary is used.
func TestUnusedAllocs_BoundaryTouchIsUsed(t *testing.T) {
	p := allocPair(0x1, 0, 64, 0, 1, 10, 10)
	regions := map[types.DeviceID][]types.TargetRegion{
		0: {{Device: 0, StartTime: 10, EndTime: 20}},
	}
	ranked := UnusedAllocs([]types.AllocationPair{p}, regions)
	assert.Equal(t, 0, ranked.Len())
}

func TestUnusedAllocs_OverlappingRegionIsUsed(t *testing.T) {
	p := allocPair(0x1, 0, 64, 0, 5, 8, 12)
	regions := map[types.DeviceID][]types.TargetRegion{
		0: {{Device: 0, StartTime: 6, EndTime: 9}},
	}
	ranked := UnusedAllocs([]types.AllocationPair{p}, regions)
	assert.Equal(t, 0, ranked.Len())
}

func TestUnusedAllocs_NonOverlappingRegionIsUnused(t *testing.T) {
	p := allocPair(0x1, 0, 64, 0, time.Duration(1), 2, 3)
	regions := map[types.DeviceID][]types.TargetRegion{
		0: {{Device: 0, StartTime: 100, EndTime: 200}},
	}
	ranked := UnusedAllocs([]types.AllocationPair{p}, regions)
	assert.Equal(t, 1, ranked.Len())
}
