package detect

import (
	"time"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// UnusedAllocGroup is one unused-allocation finding: an allocation whose
// lifetime never overlapped a device-execution region on its device.
type UnusedAllocGroup struct {
	SrcAddr types.Addr
	Device  types.DeviceID
	Bytes   uint64
	Members []types.AllocationPair
}

// UnusedAllocs walks, per device, the pair list in chronological order
// against a cursor over that device's target-region log, flagging
// allocations whose [alloc.start, delete.end] window never overlaps a
// region. Unlike RepeatedAllocs, a group of size 1 is still reported.
func UnusedAllocs(pairs []types.AllocationPair, regionsByDevice map[types.DeviceID][]types.TargetRegion) Ranked[*UnusedAllocGroup] {
	byDevice := make(map[types.DeviceID][]types.AllocationPair)
	var deviceOrder []types.DeviceID
	for _, p := range pairs {
		d := p.Alloc.DestDevice
		if _, seen := byDevice[d]; !seen {
			deviceOrder = append(deviceOrder, d)
		}
		byDevice[d] = append(byDevice[d], p)
	}

	buckets := make(map[repeatedAllocKey][]types.AllocationPair)
	var order []repeatedAllocKey

	for _, device := range deviceOrder {
		devicePairs := byDevice[device]
		regions := regionsByDevice[device]
		cursor := 0

		for _, p := range devicePairs {
			for cursor < len(regions) && regions[cursor].EndTime < p.Alloc.StartTime {
				cursor++
			}

			unused := cursor >= len(regions) || regions[cursor].StartTime > p.Delete.EndTime
			if !unused {
				continue
			}

			key := repeatedAllocKey{addr: p.Alloc.SrcAddr, device: p.Alloc.DestDevice, bytes: p.Alloc.Bytes}
			if _, seen := buckets[key]; !seen {
				order = append(order, key)
			}
			buckets[key] = append(buckets[key], p)
		}
	}

	var groups []*UnusedAllocGroup
	var totals []time.Duration
	for _, key := range order {
		members := buckets[key]
		var total time.Duration
		for _, m := range members {
			total += m.Alloc.Duration() + m.Delete.Duration()
		}
		groups = append(groups, &UnusedAllocGroup{
			SrcAddr: key.addr,
			Device:  key.device,
			Bytes:   key.bytes,
			Members: members,
		})
		totals = append(totals, total)
	}
	return NewRanked(totals, groups)
}
