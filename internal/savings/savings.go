// Package savings computes the non-double-counted potential resource
// savings the detectors found: the union of every detector's avoidable
// ops, deduplicated by identity and summed once.
package savings

import (
	"time"

	"github.com/lmarzen/ompdataperf/internal/detect"
	"github.com/lmarzen/ompdataperf/pkg/types"
)

// Category names the five detectors that feed the aggregator, used to
// label the per-category "N potential X" lines of the report.
type Category string

const (
	CategoryDuplicateTransfer Category = "duplicate transfer"
	CategoryRoundTrip         Category = "round-trip transfer"
	CategoryRepeatedAlloc     Category = "repeated allocation"
	CategoryUnusedAlloc       Category = "unused allocation"
	CategoryUnusedTransfer    Category = "unused transfer"
)

// CategoryTotal is one category's independent accounting: how many ops it
// judged avoidable and how many bytes they cover. Categories are not
// deduplicated against each other, so their counts may sum to more than
// the deduplicated op count in Result — this is expected.
type CategoryTotal struct {
	Category Category
	Calls    int
	Bytes    uint64
}

// Result is the aggregated, deduplicated savings report.
type Result struct {
	Categories []CategoryTotal

	TotalTime        time.Duration
	TimeSharePercent float64

	TransferBytes uint64
	TransferCalls int
	AllocBytes    uint64
	AllocCalls    int
}

// Aggregate unions the avoidable-op sets from every detector's ranked
// findings, deduplicates by pointer identity, and sums elapsed time, time
// share, transfer bytes/calls, and allocation bytes/calls over the
// deduplicated set. execTime bounds the time-share percentage.
func Aggregate(
	dup detect.Ranked[*detect.DuplicateGroup],
	rt detect.Ranked[*detect.RoundTripGroup],
	ra detect.Ranked[*detect.RepeatedAllocGroup],
	ua detect.Ranked[*detect.UnusedAllocGroup],
	ut detect.Ranked[*detect.UnusedTransferGroup],
	execTime time.Duration,
) Result {
	seen := make(map[*types.DataOp]struct{})
	var categories []CategoryTotal

	addCategory := func(cat Category, ops []*types.DataOp) {
		var bytes uint64
		for _, op := range ops {
			seen[op] = struct{}{}
			bytes += op.Bytes
		}
		for i := range categories {
			if categories[i].Category == cat {
				categories[i].Calls += len(ops)
				categories[i].Bytes += bytes
				return
			}
		}
		categories = append(categories, CategoryTotal{Category: cat, Calls: len(ops), Bytes: bytes})
	}

	for _, entry := range dup.Descending(0) {
		if len(entry.Group.Members) < 2 {
			continue
		}
		addCategory(CategoryDuplicateTransfer, entry.Group.Members[1:])
	}

	for _, entry := range rt.Descending(0) {
		var avoidable []*types.DataOp
		for i, pair := range entry.Group.Pairs {
			avoidable = append(avoidable, pair.Return)
			if i > 0 {
				avoidable = append(avoidable, pair.Outbound)
			}
		}
		addCategory(CategoryRoundTrip, avoidable)
	}

	for _, entry := range ra.Descending(0) {
		members := entry.Group.Members
		if len(members) < 2 {
			continue
		}
		var avoidable []*types.DataOp
		for i, m := range members {
			if i > 0 {
				avoidable = append(avoidable, m.Alloc)
			}
			if i < len(members)-1 {
				avoidable = append(avoidable, m.Delete)
			}
		}
		addCategory(CategoryRepeatedAlloc, avoidable)
	}

	for _, entry := range ua.Descending(0) {
		var avoidable []*types.DataOp
		for _, m := range entry.Group.Members {
			avoidable = append(avoidable, m.Alloc, m.Delete)
		}
		addCategory(CategoryUnusedAlloc, avoidable)
	}

	for _, entry := range ut.Descending(0) {
		addCategory(CategoryUnusedTransfer, entry.Group.Members)
	}

	var result Result
	result.Categories = categories

	for op := range seen {
		d := op.Duration()
		result.TotalTime += d
		if execTime > 0 {
			result.TimeSharePercent += float64(d) / float64(execTime) * 100
		}
		if op.Kind.IsTransfer() {
			result.TransferBytes += op.Bytes
			result.TransferCalls++
		}
		if op.Kind.IsAlloc() {
			result.AllocBytes += op.Bytes
			result.AllocCalls++
		}
	}

	return result
}
