// Package engine implements the Engine facade: the constructed value that
// owns the event logs and fingerprint service, exposes the mutex-guarded
// append API to producers, and drives normalize -> pair -> detect ->
// aggregate -> profile into renderable findings on Finalize.
package engine

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lmarzen/ompdataperf/internal/codeloc"
	"github.com/lmarzen/ompdataperf/internal/detect"
	"github.com/lmarzen/ompdataperf/internal/eventlog"
	"github.com/lmarzen/ompdataperf/internal/fingerprint"
	"github.com/lmarzen/ompdataperf/internal/pairing"
	"github.com/lmarzen/ompdataperf/internal/report"
	"github.com/lmarzen/ompdataperf/internal/savings"
	"github.com/lmarzen/ompdataperf/pkg/types"
)

// Config bounds the display/analysis knobs Finalize respects.
type Config struct {
	ListCap           int
	SublistCap        int
	CollisionAuditing bool
}

// Engine owns the two event logs for one analysis run. Its zero value is
// not usable; construct with New.
type Engine struct {
	dataOps eventlog.DataOpLog
	regions eventlog.TargetRegionLog

	hasher   fingerprint.Hasher
	auditor  *fingerprint.Auditor
	cfg      Config
	logger   *zap.Logger
	numDevices int
}

// New constructs an Engine ready to accept appends. numDevices is the
// count of non-host target devices, used to render the host device-id
// sentinel and the device count in the session banner.
func New(cfg Config, hasher fingerprint.Hasher, numDevices int, logger *zap.Logger) *Engine {
	e := &Engine{cfg: cfg, hasher: hasher, numDevices: numDevices, logger: logger}
	if cfg.CollisionAuditing {
		e.auditor = fingerprint.NewAuditor()
	}
	return e
}

// AppendDataOp records op. Safe for concurrent use by multiple producer
// goroutines during capture; must not be called after Finalize begins.
func (e *Engine) AppendDataOp(op types.DataOp) {
	e.dataOps.Append(op)
}

// AppendTargetRegion records r. Safe for concurrent use by multiple
// producer goroutines during capture.
func (e *Engine) AppendTargetRegion(r types.TargetRegion) {
	e.regions.Append(r)
}

// FingerprintPayload computes and returns the content fingerprint for
// data, auditing it for collisions if the engine was constructed with
// collision auditing enabled.
func (e *Engine) FingerprintPayload(data []byte) uint64 {
	h := e.hasher.Hash(data)
	if e.auditor != nil {
		e.auditor.Insert(h, data)
	}
	return uint64(h)
}

// Finalize runs the full analysis pipeline and returns the findings ready
// for rendering. ctx bounds nothing about the analysis itself (§5: no
// cancellation mid-analysis) but is threaded through so a future I/O-bound
// finalize step (e.g. writing a report to a remote sink) can honor it.
func (e *Engine) Finalize(ctx context.Context) (*report.Findings, error) {
	e.dataOps.Normalize()
	e.regions.Normalize()

	ops := e.dataOps.Pointers()
	regionsByDevice := e.regions.ByDevice()

	pairResult, warnings := pairing.Pair(ops)

	dup := detect.Duplicates(ops, e.cfg.SublistCap)
	rt := detect.RoundTrips(ops)
	ra := detect.RepeatedAllocs(pairResult.Pairs)
	ua := detect.UnusedAllocs(pairResult.Pairs, regionsByDevice)
	ut := detect.UnusedTransfers(ops, regionsByDevice)

	profiler := codeloc.New()
	for _, op := range ops {
		profiler.Update(op)
	}
	codeLocGroups := profiler.Flush(e.cfg.ListCap)

	execTime := runExecTime(ops, e.regions.Snapshot())

	savingsResult := savings.Aggregate(dup, rt, ra, ua, ut, execTime)

	peak := make(map[types.DeviceID]uint64, len(pairResult.Peak))
	for device, bytes := range pairResult.Peak {
		peak[device] = bytes
	}

	findings := &report.Findings{
		NumDevices:      e.numDevices,
		TotalOps:        len(ops),
		ExecTime:        execTime,
		Duplicates:      dup,
		RoundTrips:      rt,
		RepeatedAllocs:  ra,
		UnusedAllocs:    ua,
		UnusedTransfers: ut,
		CodeLocations:   codeLocGroups,
		Savings:         savingsResult,
		Peak:            peak,
	}

	if e.auditor != nil {
		summary := e.auditor.Summarize()
		findings.CollisionsEnabled = true
		findings.Collisions = summary.Collisions
		findings.CollisionUniqueKeys = summary.UniqueKeys
		findings.CollisionRatePercent = summary.CollisionRatePercent()
	}

	if warnings != nil && e.logger != nil {
		for _, w := range multierr.Errors(warnings) {
			e.logger.Warn("ingest anomaly", zap.Error(w))
		}
	}

	return findings, warnings
}

// runExecTime is the span from the earliest recorded start time to the
// latest recorded end time across both logs: the wall-clock window every
// section's time(%) column is relative to.
func runExecTime(ops []*types.DataOp, regions []types.TargetRegion) time.Duration {
	var earliest, latest time.Duration
	first := true

	consider := func(start, end time.Duration) {
		if first {
			earliest, latest = start, end
			first = false
			return
		}
		if start < earliest {
			earliest = start
		}
		if end > latest {
			latest = end
		}
	}

	for _, op := range ops {
		consider(op.StartTime, op.EndTime)
	}
	for _, r := range regions {
		consider(r.StartTime, r.EndTime)
	}
	if first {
		return 0
	}
	return latest - earliest
}
