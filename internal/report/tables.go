package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lmarzen/ompdataperf/internal/codeloc"
	"github.com/lmarzen/ompdataperf/internal/detect"
	"github.com/lmarzen/ompdataperf/internal/savings"
	"github.com/lmarzen/ompdataperf/internal/symbolize"
	"github.com/lmarzen/ompdataperf/pkg/types"
)

// Reporter renders every report section to an underlying writer.
type Reporter struct {
	w           io.Writer
	symbolizer  symbolize.Symbolizer
	numDevices  int
	listCap     int
	sublistCap  int
	verbose     bool
	banner      *color.Color
	success     *color.Color
}

// New builds a Reporter. symbolizer may be nil, in which case every
// location renders as the "<symbolizer error>" placeholder.
func New(w io.Writer, symbolizer symbolize.Symbolizer, numDevices, listCap, sublistCap int, verbose bool) *Reporter {
	return &Reporter{
		w: w, symbolizer: symbolizer, numDevices: numDevices,
		listCap: listCap, sublistCap: sublistCap, verbose: verbose,
		banner:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
	}
}

func (r *Reporter) location(loc types.CodeLoc) string {
	if r.symbolizer == nil {
		return FormatSymbol("", "", 0, fmt.Errorf("no symbolizer configured"))
	}
	sym, err := r.symbolizer.Symbolize(loc)
	return FormatSymbol(sym.Function, sym.File, sym.Line, err)
}

func (r *Reporter) sectionBanner(title string) {
	r.banner.Fprintf(r.w, "=== %s ===\n", title)
}

func (r *Reporter) success_(msg string) {
	r.success.Fprintln(r.w, "SUCCESS - "+msg)
}

// Banner prints the session banner: device count, total ops ingested, and
// the execution time every section's percentages are relative to.
func (r *Reporter) Banner(numDevices, totalOps int, execTime time.Duration) {
	r.banner.Fprintf(r.w, "ompdataperf: %d device(s), %d operation(s) ingested, exec_time=%s\n",
		numDevices, totalOps, FormatDuration(execTime))
}

// Duplicates renders the duplicate-transfer section.
func (r *Reporter) Duplicates(ranked detect.Ranked[*detect.DuplicateGroup], execTime time.Duration) {
	r.sectionBanner("Duplicate Transfers")
	entries := ranked.Descending(r.listCap)
	if len(entries) == 0 {
		r.success_("no duplicate transfers detected")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"time(%)", "time", "calls", "avg", "bytes", "size", "dest_device"})
	for _, e := range entries {
		g := e.Group
		size := uint64(0)
		if len(g.Members) > 0 {
			size = g.Members[0].Bytes
		}
		avg := e.TotalTime / time.Duration(len(g.Members))
		t.AppendRow(table.Row{
			FormatPercent(TimeShare(e.TotalTime, execTime)),
			FormatDuration(e.TotalTime),
			len(g.Members),
			FormatDuration(avg),
			humanize.Bytes(size * uint64(len(g.Members))),
			humanize.Bytes(size),
			FormatDeviceNum(r.numDevices, g.DestDevice),
		})
		for _, sub := range g.SubGroups {
			t.AppendRow(table.Row{"", "", sub.Calls, "", "", "", fmt.Sprintf("src=%s %s",
				FormatDeviceNum(r.numDevices, sub.SrcDevice), r.location(sub.CodeLoc))})
		}
	}
	t.Render()
}

// RoundTrips renders the round-trip-transfer section.
func (r *Reporter) RoundTrips(ranked detect.Ranked[*detect.RoundTripGroup], execTime time.Duration) {
	r.sectionBanner("Round-Trip Transfers")
	entries := ranked.Descending(r.listCap)
	if len(entries) == 0 {
		r.success_("no round-trip transfers detected")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"time(%)", "time", "trips", "avg", "bytes", "size", "src", "dest", "optype", "location"})
	for _, e := range entries {
		g := e.Group
		trips := len(g.Pairs)
		avg := e.TotalTime / time.Duration(trips*2)
		var bytes uint64
		for _, p := range g.Pairs {
			bytes += p.Outbound.Bytes + p.Return.Bytes
		}
		t.AppendRow(table.Row{
			FormatPercent(TimeShare(e.TotalTime, execTime)), FormatDuration(e.TotalTime), trips, FormatDuration(avg),
			humanize.Bytes(bytes), "", FormatDeviceNum(r.numDevices, g.From), FormatDeviceNum(r.numDevices, g.To), "", "",
		})
		for _, p := range g.Pairs {
			t.AppendRow(table.Row{"", "", "", "", "", humanize.Bytes(p.Outbound.Bytes), "", "",
				FormatOpKind(p.Outbound.Kind), r.location(p.Outbound.CodeLoc)})
			t.AppendRow(table.Row{"", "", "", "", "", humanize.Bytes(p.Return.Bytes), "", "",
				FormatOpKind(p.Return.Kind), r.location(p.Return.CodeLoc)})
		}
	}
	t.Render()
}

// RepeatedAllocs renders the repeated-allocation section.
func (r *Reporter) RepeatedAllocs(ranked detect.Ranked[*detect.RepeatedAllocGroup], execTime time.Duration) {
	r.sectionBanner("Repeated Allocations")
	entries := ranked.Descending(r.listCap)
	if len(entries) == 0 {
		r.success_("no repeated allocations detected")
		return
	}
	r.renderAllocStyle(entries, execTime, func(m types.AllocationPair) *types.DataOp { return m.Alloc },
		func(m types.AllocationPair) *types.DataOp { return m.Delete })
}

// UnusedAllocs renders the unused-allocation section, sharing the
// repeated-allocation column schema.
func (r *Reporter) UnusedAllocs(ranked detect.Ranked[*detect.UnusedAllocGroup], execTime time.Duration) {
	r.sectionBanner("Unused Allocations")
	entries := ranked.Descending(r.listCap)
	if len(entries) == 0 {
		r.success_("no unused allocations detected")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"time(%)", "time", "allocs", "avg", "bytes", "size", "tgt_device", "optype", "location"})
	for _, e := range entries {
		g := e.Group
		avg := e.TotalTime / time.Duration(len(g.Members)*2)
		t.AppendRow(table.Row{
			FormatPercent(TimeShare(e.TotalTime, execTime)), FormatDuration(e.TotalTime), len(g.Members),
			FormatDuration(avg), humanize.Bytes(g.Bytes * uint64(len(g.Members))), humanize.Bytes(g.Bytes),
			FormatDeviceNum(r.numDevices, g.Device), "", "",
		})
		for _, m := range g.Members {
			t.AppendRow(table.Row{"", "", "", "", "", "", "", FormatOpKind(m.Alloc.Kind), r.location(m.Alloc.CodeLoc)})
			t.AppendRow(table.Row{"", "", "", "", "", "", "", FormatOpKind(m.Delete.Kind), r.location(m.Delete.CodeLoc)})
		}
	}
	t.Render()
}

func (r *Reporter) renderAllocStyle(
	entries []struct {
		TotalTime time.Duration
		Group     *detect.RepeatedAllocGroup
	},
	execTime time.Duration,
	allocOf, deleteOf func(types.AllocationPair) *types.DataOp,
) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"time(%)", "time", "allocs", "avg", "bytes", "size", "tgt_device", "optype", "location"})
	for _, e := range entries {
		g := e.Group
		avg := e.TotalTime / time.Duration(len(g.Members)*2)
		t.AppendRow(table.Row{
			FormatPercent(TimeShare(e.TotalTime, execTime)), FormatDuration(e.TotalTime), len(g.Members),
			FormatDuration(avg), humanize.Bytes(g.Bytes * uint64(len(g.Members))), humanize.Bytes(g.Bytes),
			FormatDeviceNum(r.numDevices, g.Device), "", "",
		})
		for _, m := range g.Members {
			a, d := allocOf(m), deleteOf(m)
			t.AppendRow(table.Row{"", "", "", "", "", "", "", FormatOpKind(a.Kind), r.location(a.CodeLoc)})
			t.AppendRow(table.Row{"", "", "", "", "", "", "", FormatOpKind(d.Kind), r.location(d.CodeLoc)})
		}
	}
	t.Render()
}

// UnusedTransfers renders the unused-transfer section, sharing the
// duplicate-transfer column schema (no sub-groups).
func (r *Reporter) UnusedTransfers(ranked detect.Ranked[*detect.UnusedTransferGroup], execTime time.Duration) {
	r.sectionBanner("Unused Transfers")
	entries := ranked.Descending(r.listCap)
	if len(entries) == 0 {
		r.success_("no unused transfers detected")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"time(%)", "time", "calls", "avg", "bytes", "size", "dest_device", "location"})
	for _, e := range entries {
		g := e.Group
		avg := e.TotalTime / time.Duration(len(g.Members))
		t.AppendRow(table.Row{
			FormatPercent(TimeShare(e.TotalTime, execTime)), FormatDuration(e.TotalTime), len(g.Members),
			FormatDuration(avg), humanize.Bytes(g.Bytes * uint64(len(g.Members))), humanize.Bytes(g.Bytes),
			FormatDeviceNum(r.numDevices, g.Device), "",
		})
		for _, m := range g.Members {
			t.AppendRow(table.Row{"", "", "", "", "", "", "", r.location(m.CodeLoc)})
		}
	}
	t.Render()
}

// CodeLocations renders the per-codeptr profile section.
func (r *Reporter) CodeLocations(groups []codeloc.Group, execTime time.Duration) {
	r.sectionBanner("Durations by Code Location")
	if len(groups) == 0 {
		r.success_("no data operations profiled")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"time(%)", "time", "calls", "avg", "min", "max", "bytes", "optype", "location"})
	for _, g := range groups {
		t.AppendRow(table.Row{
			FormatPercent(TimeShare(g.Total, execTime)), FormatDuration(g.Total), g.Calls,
			FormatDuration(g.Avg), FormatDuration(g.Min), FormatDuration(g.Max),
			humanize.Bytes(g.Bytes), FormatOpKind(g.Kind), r.location(g.CodeLoc),
		})
	}
	t.Render()
}

// Summary renders the run summary section: per-kind totals.
func (r *Reporter) Summary(groups []codeloc.Group, execTime time.Duration) {
	r.sectionBanner("Summary")
	if len(groups) == 0 {
		r.success_("no data operations profiled")
		return
	}

	byKind := make(map[types.OpKind]struct {
		calls uint64
		total time.Duration
		bytes uint64
	})
	var order []types.OpKind
	for _, g := range groups {
		entry, ok := byKind[g.Kind]
		if !ok {
			order = append(order, g.Kind)
		}
		entry.calls += g.Calls
		entry.total += g.Total
		entry.bytes += g.Bytes
		byKind[g.Kind] = entry
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"time(%)", "time", "calls", "bytes", "optype"})
	for _, k := range order {
		e := byKind[k]
		t.AppendRow(table.Row{
			FormatPercent(TimeShare(e.total, execTime)), FormatDuration(e.total), e.calls,
			humanize.Bytes(e.bytes), FormatOpKind(k),
		})
	}
	t.Render()
}

// Savings renders the potential-resource-savings section.
func (r *Reporter) Savings(res savings.Result, execTime time.Duration) {
	r.sectionBanner("Potential Resource Savings")
	for _, c := range res.Categories {
		fmt.Fprintf(r.w, "Found %d potential %s(s), totaling %s\n", c.Calls, c.Category, humanize.Bytes(c.Bytes))
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendRow(table.Row{"time(%)", FormatPercent(res.TimeSharePercent)})
	t.AppendRow(table.Row{"time", FormatDuration(res.TotalTime)})
	t.AppendRow(table.Row{"data transfers", res.TransferCalls})
	t.AppendRow(table.Row{"bytes transferred", humanize.Bytes(res.TransferBytes)})
	t.AppendRow(table.Row{"allocations", res.AllocCalls})
	t.AppendRow(table.Row{"bytes allocated", humanize.Bytes(res.AllocBytes)})
	t.Render()
}

// PeakMemory renders the peak-device-memory-allocation section.
func (r *Reporter) PeakMemory(peak map[types.DeviceID]uint64) {
	r.sectionBanner("Peak Device Memory Allocation")
	if len(peak) == 0 {
		r.success_("no allocations profiled")
		return
	}

	devices := make([]types.DeviceID, 0, len(peak))
	for device := range peak {
		devices = append(devices, device)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i] < devices[j] })

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(table.Row{"tgt_device", "bytes"})
	for _, device := range devices {
		t.AppendRow(table.Row{FormatDeviceNum(r.numDevices, device), humanize.Bytes(peak[device])})
	}
	t.Render()
}

// CollisionSummary renders the optional fingerprint-collision audit line.
func (r *Reporter) CollisionSummary(collisions, uniqueKeys int, ratePercent string) {
	fmt.Fprintf(r.w, "Found %d collisions for %d unique keys for a collision rate of %s\n",
		collisions, uniqueKeys, ratePercent)
}
