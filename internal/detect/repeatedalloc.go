package detect

import (
	"time"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// RepeatedAllocGroup is one repeated-allocation finding: the same host
// address range, on the same device, with the same size, allocated more
// than once over the run.
type RepeatedAllocGroup struct {
	SrcAddr types.Addr
	Device  types.DeviceID
	Bytes   uint64
	Members []types.AllocationPair
}

type repeatedAllocKey struct {
	addr   types.Addr
	device types.DeviceID
	bytes  uint64
}

// RepeatedAllocs groups the allocation-pairing result by
// (alloc.src_addr, alloc.dest_device, alloc.bytes) and keeps groups of
// size 2 or more.
func RepeatedAllocs(pairs []types.AllocationPair) Ranked[*RepeatedAllocGroup] {
	buckets := make(map[repeatedAllocKey][]types.AllocationPair)
	var order []repeatedAllocKey

	for _, p := range pairs {
		key := repeatedAllocKey{addr: p.Alloc.SrcAddr, device: p.Alloc.DestDevice, bytes: p.Alloc.Bytes}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], p)
	}

	var groups []*RepeatedAllocGroup
	var totals []time.Duration
	for _, key := range order {
		members := buckets[key]
		if len(members) < 2 {
			continue
		}
		var total time.Duration
		for _, m := range members {
			total += m.Alloc.Duration() + m.Delete.Duration()
		}
		groups = append(groups, &RepeatedAllocGroup{
			SrcAddr: key.addr,
			Device:  key.device,
			Bytes:   key.bytes,
			Members: members,
		})
		totals = append(totals, total)
	}
	return NewRanked(totals, groups)
}
