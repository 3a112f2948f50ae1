package types

// LocationAggregate is the metrics-exporter view of one (code location,
// op kind) group: call count, summed/min/max duration, and summed bytes.
// The code-location profiler's richer Group type adapts down to this
// shape via codeloc.ToLocationAggregates so the Prometheus registry can
// republish per-location series without importing the profiler package's
// internal accumulation state.
type LocationAggregate struct {
	CodeLoc CodeLoc
	Kind    OpKind
	Calls   uint64
	Total   int64 // nanoseconds
	Min     int64
	Max     int64
	Bytes   uint64
}
