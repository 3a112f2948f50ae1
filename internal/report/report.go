package report

import (
	"io"
	"time"

	"github.com/lmarzen/ompdataperf/internal/codeloc"
	"github.com/lmarzen/ompdataperf/internal/detect"
	"github.com/lmarzen/ompdataperf/internal/savings"
	"github.com/lmarzen/ompdataperf/internal/symbolize"
	"github.com/lmarzen/ompdataperf/pkg/types"
)

// Findings holds every computed result the engine's finalize pass
// produces; Render drives a Reporter over all of it in the fixed section
// order §6 specifies.
type Findings struct {
	NumDevices int
	TotalOps   int
	ExecTime   time.Duration

	Duplicates      detect.Ranked[*detect.DuplicateGroup]
	RoundTrips      detect.Ranked[*detect.RoundTripGroup]
	RepeatedAllocs  detect.Ranked[*detect.RepeatedAllocGroup]
	UnusedAllocs    detect.Ranked[*detect.UnusedAllocGroup]
	UnusedTransfers detect.Ranked[*detect.UnusedTransferGroup]

	CodeLocations []codeloc.Group
	Savings       savings.Result
	Peak          map[types.DeviceID]uint64

	CollisionsEnabled bool
	Collisions        int
	CollisionUniqueKeys int
	CollisionRatePercent string
}

// Render writes every section to w in the order the engine reports them.
func Render(w io.Writer, symbolizer symbolize.Symbolizer, listCap, sublistCap int, verbose bool, f Findings) {
	r := New(w, symbolizer, f.NumDevices, listCap, sublistCap, verbose)

	r.Banner(f.NumDevices, f.TotalOps, f.ExecTime)
	r.Duplicates(f.Duplicates, f.ExecTime)
	r.RoundTrips(f.RoundTrips, f.ExecTime)
	r.RepeatedAllocs(f.RepeatedAllocs, f.ExecTime)
	r.UnusedAllocs(f.UnusedAllocs, f.ExecTime)
	r.UnusedTransfers(f.UnusedTransfers, f.ExecTime)
	r.CodeLocations(f.CodeLocations, f.ExecTime)
	r.Summary(f.CodeLocations, f.ExecTime)
	r.Savings(f.Savings, f.ExecTime)
	r.PeakMemory(f.Peak)

	if f.CollisionsEnabled {
		r.CollisionSummary(f.Collisions, f.CollisionUniqueKeys, f.CollisionRatePercent)
	}
}
