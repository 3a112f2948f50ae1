// Package pairing matches each allocation with its corresponding deletion
// and derives per-device peak allocated bytes, per the allocation-pairing
// algorithm.
package pairing

import (
	"sort"

	"go.uber.org/multierr"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

type liveKey struct {
	addr   types.Addr
	device types.DeviceID
}

// Result is the output of Pair: the matched allocation/deletion pairs,
// sorted for downstream detectors, and the peak bytes ever concurrently
// allocated on each device.
type Result struct {
	Pairs []types.AllocationPair
	Peak  map[types.DeviceID]uint64
}

// Pair walks the (already normalized) data-op log in chronological order,
// matching allocs to deletes by (address, device) with stack-discipline on
// overlapping allocations at the same address. Unmatched deletes and
// allocations still live at the end of the walk are reported as warnings,
// not errors: the walk always completes and returns whatever pairs it
// could build.
func Pair(ops []*types.DataOp) (Result, error) {
	live := make(map[liveKey][]*types.DataOp)
	allocated := make(map[types.DeviceID]uint64)
	peak := make(map[types.DeviceID]uint64)

	var pairs []types.AllocationPair
	var warnings error

	for _, op := range ops {
		switch {
		case op.Kind.IsAlloc():
			key := liveKey{addr: op.DestAddr, device: op.DestDevice}
			live[key] = append(live[key], op)
			allocated[op.DestDevice] += op.Bytes
			if allocated[op.DestDevice] > peak[op.DestDevice] {
				peak[op.DestDevice] = allocated[op.DestDevice]
			}

		case op.Kind.IsDelete():
			key := liveKey{addr: op.SrcAddr, device: op.SrcDevice}
			stack := live[key]
			if len(stack) == 0 {
				warnings = multierr.Append(warnings, &UnmatchedDeleteError{Op: op})
				continue
			}
			alloc := stack[len(stack)-1]
			if len(stack) == 1 {
				delete(live, key)
			} else {
				live[key] = stack[:len(stack)-1]
			}
			pairs = append(pairs, types.AllocationPair{Alloc: alloc, Delete: op})
			allocated[alloc.DestDevice] -= alloc.Bytes
		}
	}

	leaked := make([]*types.DataOp, 0, len(live))
	for _, stack := range live {
		leaked = append(leaked, stack...)
	}
	sort.SliceStable(leaked, func(i, j int) bool {
		return leaked[i].StartTime < leaked[j].StartTime
	})
	for _, alloc := range leaked {
		warnings = multierr.Append(warnings, &UnmatchedAllocError{Op: alloc})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.Alloc.StartTime != b.Alloc.StartTime {
			return a.Alloc.StartTime < b.Alloc.StartTime
		}
		if a.Delete.StartTime != b.Delete.StartTime {
			return a.Delete.StartTime < b.Delete.StartTime
		}
		if a.Alloc.EndTime != b.Alloc.EndTime {
			return a.Alloc.EndTime < b.Alloc.EndTime
		}
		return a.Delete.EndTime < b.Delete.EndTime
	})

	return Result{Pairs: pairs, Peak: peak}, warnings
}
