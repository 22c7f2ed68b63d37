package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is D1's metrics surface: per-Store Prometheus instrumentation
// for the transaction engine (commits, remote applies, undo, redo) and a
// periodic snapshot of table sizes via Collector.
//
// Unlike the teacher's package-level vars registered once against the
// default registerer, Recorder owns a private *prometheus.Registry. A
// process that runs more than one Store (the CLI demo's two-peer
// simulation, or a test that opens several stores) constructs one
// Recorder per Store; registering the same metric names twice against
// prometheus.DefaultRegisterer would panic, and there is exactly one
// Store per physical peer so there is no reason to share a registry.
type Recorder struct {
	registry *prometheus.Registry

	commitsTotal prometheus.Counter
	appliesTotal prometheus.Counter
	undoesTotal  prometheus.Counter
	redoesTotal  prometheus.Counter
	commitFields        prometheus.Histogram
	applyFields         prometheus.Histogram
	storeVersion        prometheus.Gauge
	recordsTotal        *prometheus.GaugeVec
	transactionDuration *prometheus.HistogramVec
}

// NewRecorder builds a Recorder with its own registry and registers every
// metric against it.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.commitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warren_store_commits_total",
		Help: "Total number of local transactions committed via Store.End.",
	})
	r.appliesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warren_store_applies_total",
		Help: "Total number of remote transaction envelopes applied via Store.ApplyTransaction.",
	})
	r.undoesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warren_store_undoes_total",
		Help: "Total number of transactions reversed via Store.Undo.",
	})
	r.redoesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "warren_store_redoes_total",
		Help: "Total number of transactions replayed via Store.Redo.",
	})
	r.commitFields = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "warren_store_commit_patch_fields",
		Help:    "Number of distinct fields touched by a committed local transaction's patch.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
	})
	r.applyFields = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "warren_store_apply_patch_fields",
		Help:    "Number of distinct fields touched by an applied remote transaction's patch.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
	})
	r.storeVersion = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "warren_store_version",
		Help: "Current monotonic version counter of the store.",
	})
	r.recordsTotal = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "warren_store_records_total",
		Help: "Number of records currently held by each table, by schema id.",
	}, []string{"schema"})
	r.transactionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warren_store_transaction_duration_seconds",
		Help:    "Wall-clock time spent in Store.End/ApplyTransaction/Undo/Redo, by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	r.registry.MustRegister(
		r.commitsTotal,
		r.appliesTotal,
		r.undoesTotal,
		r.redoesTotal,
		r.commitFields,
		r.applyFields,
		r.storeVersion,
		r.recordsTotal,
		r.transactionDuration,
	)
	return r
}

// ObserveCommit records a locally committed transaction whose patch and
// change touched patchFields and changeFields distinct fields
// respectively. Only patchFields is recorded (in the patch-field
// histogram); changeFields is accepted for symmetry with ObserveApply
// and is not recorded anywhere.
func (r *Recorder) ObserveCommit(patchFields, changeFields int) {
	r.commitsTotal.Inc()
	r.commitFields.Observe(float64(patchFields))
	_ = changeFields
}

// ObserveApply records an applied remote transaction envelope.
func (r *Recorder) ObserveApply(patchFields, changeFields int) {
	r.appliesTotal.Inc()
	r.applyFields.Observe(float64(patchFields))
	_ = changeFields
}

// ObserveUndo records one Store.Undo call.
func (r *Recorder) ObserveUndo() {
	r.undoesTotal.Inc()
}

// ObserveRedo records one Store.Redo call.
func (r *Recorder) ObserveRedo() {
	r.redoesTotal.Inc()
}

// ObserveDuration records timer's elapsed time against the
// transaction-duration histogram, labeled by op ("commit", "apply",
// "undo", "redo"). Store starts a Timer at the top of each of those
// four methods and calls this at the end, giving D1 a per-operation
// latency signal alongside the counters and field-count histograms
// above.
func (r *Recorder) ObserveDuration(op string, timer *Timer) {
	timer.ObserveDurationVec(r.transactionDuration, op)
}

// Handler returns the Prometheus scrape handler for this Recorder's
// registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
