package metrics

import "time"

// TableSizer is the subset of *store.Store a Collector needs. Declared
// here rather than imported so pkg/metrics does not depend on pkg/store,
// which already depends on pkg/metrics for Recorder.
type TableSizer interface {
	Version() uint64
	TableSizes() map[string]int
}

// Collector periodically samples a store's version and per-table record
// counts into a Recorder's gauges. Grounded on the teacher's manager
// collector, which polled node/service/task counts on a ticker instead
// of wiring push-based updates into every call site.
type Collector struct {
	recorder *Recorder
	store    TableSizer
	interval time.Duration
	stopCh   chan struct{}
}

// NewCollector builds a Collector. A non-positive interval defaults to
// 15 seconds, matching the teacher's polling cadence.
func NewCollector(recorder *Recorder, store TableSizer, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Collector{recorder: recorder, store: store, interval: interval, stopCh: make(chan struct{})}
}

// Start begins sampling on a ticker, collecting immediately on start.
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts sampling.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.recorder.storeVersion.Set(float64(c.store.Version()))
	for schemaID, size := range c.store.TableSizes() {
		c.recorder.recordsTotal.WithLabelValues(schemaID).Set(float64(size))
	}
}
