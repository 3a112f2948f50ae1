// Package eventlog holds the two append-only event logs the engine
// accumulates during capture: the data-op log and the target-region log.
// Appends are mutex-protected for multi-producer capture; everything else
// in the analysis pipeline runs after capture completes and reads the
// logs without further locking.
package eventlog

import (
	"sort"
	"sync"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// DataOpLog is a mutex-protected, append-only sequence of DataOp records.
type DataOpLog struct {
	mu   sync.Mutex
	ops  []types.DataOp
}

// Append records op. Safe to call from multiple producer goroutines.
func (l *DataOpLog) Append(op types.DataOp) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

// Len returns the number of recorded ops.
func (l *DataOpLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ops)
}

// Normalize stably sorts the log by (start_time, end_time) ascending.
// Must only be called after capture completes; it takes no lock itself
// beyond reading the slice header under the mutex, since no producer may
// still be appending at this point (§5's ownership-transfer contract).
func (l *DataOpLog) Normalize() {
	l.mu.Lock()
	ops := l.ops
	l.mu.Unlock()

	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].StartTime != ops[j].StartTime {
			return ops[i].StartTime < ops[j].StartTime
		}
		return ops[i].EndTime < ops[j].EndTime
	})
}

// Snapshot returns the current backing slice. Callers must not retain it
// across further Appends.
func (l *DataOpLog) Snapshot() []types.DataOp {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ops
}

// Pointers returns stable pointers into the log's backing array, valid
// for the lifetime of the analysis pass (no further appends once
// Normalize has run).
func (l *DataOpLog) Pointers() []*types.DataOp {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*types.DataOp, len(l.ops))
	for i := range l.ops {
		out[i] = &l.ops[i]
	}
	return out
}

// TargetRegionLog is a mutex-protected, append-only sequence of
// TargetRegion records.
type TargetRegionLog struct {
	mu      sync.Mutex
	regions []types.TargetRegion
}

// Append records r. Safe to call from multiple producer goroutines.
func (l *TargetRegionLog) Append(r types.TargetRegion) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.regions = append(l.regions, r)
}

// Len returns the number of recorded regions.
func (l *TargetRegionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.regions)
}

// Normalize stably sorts the log by (start_time, end_time) ascending.
func (l *TargetRegionLog) Normalize() {
	l.mu.Lock()
	regions := l.regions
	l.mu.Unlock()

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].StartTime != regions[j].StartTime {
			return regions[i].StartTime < regions[j].StartTime
		}
		return regions[i].EndTime < regions[j].EndTime
	})
}

// Snapshot returns the current backing slice.
func (l *TargetRegionLog) Snapshot() []types.TargetRegion {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.regions
}

// ByDevice buckets the (already normalized) region log by device,
// preserving chronological order within each bucket.
func (l *TargetRegionLog) ByDevice() map[types.DeviceID][]types.TargetRegion {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[types.DeviceID][]types.TargetRegion)
	for _, r := range l.regions {
		out[r.Device] = append(out[r.Device], r)
	}
	return out
}
