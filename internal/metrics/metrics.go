// Package metrics exposes Prometheus counters/gauges for a long-lived
// ompdataperf-report batch-worker deployment that repeatedly analyzes
// dropped-off capture files instead of exiting after one.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// Registry owns the process's metric collectors and an optional HTTP
// server to expose them.
type Registry struct {
	ingested *prometheus.CounterVec
	skipped  prometheus.Counter
	analysisDuration prometheus.Gauge
	peakBytes *prometheus.GaugeVec
	locationTime  *prometheus.GaugeVec
	locationCalls *prometheus.GaugeVec
	locationBytes *prometheus.GaugeVec

	server *http.Server
}

// New registers every collector against a fresh registry.
func New() *Registry {
	return &Registry{
		ingested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ompdataperf",
			Name:      "records_ingested_total",
			Help:      "Data operations ingested, by op kind.",
		}, []string{"kind"}),
		skipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "ompdataperf",
			Name:      "records_skipped_total",
			Help:      "Capture-stream records skipped due to a producer-ingest anomaly.",
		}),
		analysisDuration: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "ompdataperf",
			Name:      "analysis_duration_seconds",
			Help:      "Wall-clock duration of the most recent Finalize pass.",
		}),
		peakBytes: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ompdataperf",
			Name:      "peak_device_bytes",
			Help:      "Peak allocated bytes observed per device in the most recent run.",
		}, []string{"device"}),
		locationTime: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ompdataperf",
			Name:      "location_total_duration_seconds",
			Help:      "Total duration attributed to a (code location, op kind) group in the most recent run.",
		}, []string{"location", "kind"}),
		locationCalls: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ompdataperf",
			Name:      "location_calls_total",
			Help:      "Call count attributed to a (code location, op kind) group in the most recent run.",
		}, []string{"location", "kind"}),
		locationBytes: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ompdataperf",
			Name:      "location_bytes_total",
			Help:      "Bytes attributed to a (code location, op kind) group in the most recent run.",
		}, []string{"location", "kind"}),
	}
}

// RecordLocationAggregates republishes the code-location profiler's
// flushed groups, adapted to types.LocationAggregate, as per-location
// gauge series. Call once per Finalize pass.
func (r *Registry) RecordLocationAggregates(aggs []types.LocationAggregate) {
	r.locationTime.Reset()
	r.locationCalls.Reset()
	r.locationBytes.Reset()
	for _, a := range aggs {
		loc := fmt.Sprintf("0x%x", uint64(a.CodeLoc))
		kind := a.Kind.String()
		r.locationTime.WithLabelValues(loc, kind).Set(time.Duration(a.Total).Seconds())
		r.locationCalls.WithLabelValues(loc, kind).Set(float64(a.Calls))
		r.locationBytes.WithLabelValues(loc, kind).Set(float64(a.Bytes))
	}
}

// RecordIngested increments the per-kind ingested counter.
func (r *Registry) RecordIngested(kind types.OpKind) {
	r.ingested.WithLabelValues(kind.String()).Inc()
}

// RecordSkipped increments the skipped-record counter.
func (r *Registry) RecordSkipped() {
	r.skipped.Inc()
}

// ObserveAnalysis records how long a Finalize pass took.
func (r *Registry) ObserveAnalysis(d time.Duration) {
	r.analysisDuration.Set(d.Seconds())
}

// SetPeakBytes records the peak allocated bytes for device.
func (r *Registry) SetPeakBytes(device string, bytes uint64) {
	r.peakBytes.WithLabelValues(device).Set(float64(bytes))
}

// Serve starts an HTTP server exposing /metrics on addr. It blocks until
// ctx is canceled, then shuts the server down gracefully.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	r.server = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return r.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
