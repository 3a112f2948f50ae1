// Package codeloc implements the code-location profiler: an aggregator
// grouping every data operation by (code location, op kind) into call
// count, total/avg/min/max duration, and summed bytes.
//
// The accumulation idiom here — a mutex-guarded map keyed by group,
// updated incrementally as each op arrives and read once at the end of
// the run — mirrors the windowed GPU aggregator the teacher used for its
// telemetry collector, generalized from a time-windowed flush to a single
// terminal one since post-mortem analysis has no windows.
package codeloc

import (
	"sort"
	"sync"
	"time"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

type groupKey struct {
	codeLoc types.CodeLoc
	kind    types.OpKind
}

type group struct {
	key   groupKey
	calls uint64
	total time.Duration
	min   time.Duration
	max   time.Duration
	bytes uint64
	avg   time.Duration
}

// Profiler accumulates per-(code_loc, kind) statistics. Its groups adapt
// to types.LocationAggregate via ToLocationAggregates so the long-lived
// batch-worker deployment mode can republish them through the metrics
// registry without the profiler depending on Prometheus directly.
type Profiler struct {
	mu     sync.Mutex
	groups map[groupKey]*group
	order  []groupKey
}

// New returns an empty profiler.
func New() *Profiler {
	return &Profiler{groups: make(map[groupKey]*group)}
}

// Update folds one op into its (code_loc, kind) group.
func (p *Profiler) Update(op *types.DataOp) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := groupKey{codeLoc: op.CodeLoc, kind: op.Kind}
	g, ok := p.groups[key]
	if !ok {
		g = &group{key: key, min: op.Duration(), max: op.Duration()}
		p.groups[key] = g
		p.order = append(p.order, key)
	}

	d := op.Duration()
	g.calls++
	g.total += d
	g.avg = time.Duration((int64(g.avg)*int64(g.calls-1) + int64(d)) / int64(g.calls))
	if d < g.min {
		g.min = d
	}
	if d > g.max {
		g.max = d
	}
	g.bytes += op.Bytes
}

// Group is one (code_loc, kind) aggregate, ready for ranking and
// rendering.
type Group struct {
	CodeLoc types.CodeLoc
	Kind    types.OpKind
	Calls   uint64
	Total   time.Duration
	Avg     time.Duration
	Min     time.Duration
	Max     time.Duration
	Bytes   uint64
}

// Flush returns every accumulated group, ranked by total time descending
// and clipped to listCap (listCap <= 0 means unlimited). It does not reset
// the accumulated groups.
func (p *Profiler) Flush(listCap int) []Group {
	p.mu.Lock()
	defer p.mu.Unlock()

	groups := make([]Group, 0, len(p.order))
	for _, key := range p.order {
		g := p.groups[key]
		groups = append(groups, Group{
			CodeLoc: key.codeLoc,
			Kind:    key.kind,
			Calls:   g.calls,
			Total:   g.total,
			Avg:     g.avg,
			Min:     g.min,
			Max:     g.max,
			Bytes:   g.bytes,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total > groups[j].Total
	})
	if listCap > 0 && len(groups) > listCap {
		groups = groups[:listCap]
	}
	return groups
}

// ToLocationAggregates adapts codeloc.Group values to the generic
// types.LocationAggregate shape the metrics registry consumes.
func ToLocationAggregates(groups []Group) []types.LocationAggregate {
	out := make([]types.LocationAggregate, len(groups))
	for i, g := range groups {
		out[i] = types.LocationAggregate{
			CodeLoc: g.CodeLoc,
			Kind:    g.Kind,
			Calls:   g.Calls,
			Total:   int64(g.Total),
			Min:     int64(g.Min),
			Max:     int64(g.Max),
			Bytes:   g.Bytes,
		}
	}
	return out
}
