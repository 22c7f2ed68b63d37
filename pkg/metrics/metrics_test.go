package metrics

import (
	"net/http/httptest"
	"testing"
)

func TestNewRecorderRegistersWithoutPanicking(t *testing.T) {
	r1 := NewRecorder()
	r2 := NewRecorder()

	if r1 == nil || r2 == nil {
		t.Fatal("NewRecorder() returned nil")
	}
	// Two Recorders register the same metric names against two distinct
	// registries; this must not panic the way a shared DefaultRegisterer
	// would on the second MustRegister call.
}

func TestRecorderObserveCommitAndApply(t *testing.T) {
	r := NewRecorder()

	r.ObserveCommit(3, 2)
	r.ObserveApply(5, 1)
	r.ObserveUndo()
	r.ObserveRedo()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("metrics handler status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"warren_store_commits_total 1",
		"warren_store_applies_total 1",
		"warren_store_undoes_total 1",
		"warren_store_redoes_total 1",
	} {
		if !contains(body, want) {
			t.Errorf("metrics output missing %q\nfull output:\n%s", want, body)
		}
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

type fakeTableSizer struct {
	version uint64
	sizes   map[string]int
}

func (f fakeTableSizer) Version() uint64            { return f.version }
func (f fakeTableSizer) TableSizes() map[string]int { return f.sizes }

func TestCollectorSamplesStoreIntoGauges(t *testing.T) {
	r := NewRecorder()
	store := fakeTableSizer{version: 7, sizes: map[string]int{"documents": 4}}

	c := NewCollector(r, store, 0)
	// Exercise the sampling logic directly rather than racing a ticker.
	c.collect()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	body := w.Body.String()
	if !contains(body, "warren_store_version 7") {
		t.Errorf("expected store version gauge to read 7, got:\n%s", body)
	}
	if !contains(body, `warren_store_records_total{schema="documents"} 4`) {
		t.Errorf("expected records_total gauge for schema documents, got:\n%s", body)
	}

	c.Stop()
}
