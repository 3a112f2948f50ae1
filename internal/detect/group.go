// Package detect implements the five independent pattern detectors:
// duplicate-transfer, round-trip-transfer, repeated-allocation,
// unused-allocation, and unused-transfer.
package detect

import (
	"sort"
	"time"
)

// Ranked is the output every detector produces: a set of groups ordered
// ascending by total elapsed time, ready for the reporter to consume in
// reverse (descending) and clip to a display cap. A plain sorted slice is
// used in place of the original's incrementally maintained ordered set,
// per the container-choice note: equivalent once the detector has
// finished, and simpler to build.
type Ranked[G any] struct {
	entries []rankedEntry[G]
}

type rankedEntry[G any] struct {
	totalTime time.Duration
	group     G
}

// NewRanked builds a Ranked set from groups, each paired with its total
// time, sorted ascending by total time. Ties are broken by input order
// (stable sort), matching the spec's "reference comparison suffices"
// tie-breaking note.
func NewRanked[G any](totalTimes []time.Duration, groups []G) Ranked[G] {
	entries := make([]rankedEntry[G], len(groups))
	for i := range groups {
		entries[i] = rankedEntry[G]{totalTime: totalTimes[i], group: groups[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].totalTime < entries[j].totalTime
	})
	return Ranked[G]{entries: entries}
}

// Len returns the number of groups.
func (r Ranked[G]) Len() int { return len(r.entries) }

// Descending returns groups and their total times in descending order of
// total time, clipped to at most cap entries (cap <= 0 means unlimited).
func (r Ranked[G]) Descending(cap int) []struct {
	TotalTime time.Duration
	Group     G
} {
	n := len(r.entries)
	limit := n
	if cap > 0 && cap < n {
		limit = cap
	}
	out := make([]struct {
		TotalTime time.Duration
		Group     G
	}, limit)
	for i := 0; i < limit; i++ {
		e := r.entries[n-1-i]
		out[i].TotalTime = e.totalTime
		out[i].Group = e.group
	}
	return out
}
