package omap

import "testing"

func TestSetMaintainsSortedOrder(t *testing.T) {
	m := New[int]()
	keys := []string{"m", "a", "z", "b", "k"}
	for i, k := range keys {
		m.Set(k, i)
	}
	if m.Size() != len(keys) {
		t.Fatalf("size = %d, want %d", m.Size(), len(keys))
	}
	prev := ""
	for i := 0; i < m.Size(); i++ {
		k, _, ok := m.At(i)
		if !ok {
			t.Fatalf("At(%d) missing", i)
		}
		if k < prev {
			t.Fatalf("order violated at index %d: %q < %q", i, k, prev)
		}
		prev = k
	}
}

func TestSetReplacesInPlace(t *testing.T) {
	m := New[string]()
	m.Set("a", "first")
	m.Set("b", "x")
	idxBefore := m.IndexOf("a")
	m.Set("a", "second")
	if m.Size() != 2 {
		t.Fatalf("size = %d, want 2 after replace", m.Size())
	}
	if m.IndexOf("a") != idxBefore {
		t.Fatalf("replace changed position: %d != %d", m.IndexOf("a"), idxBefore)
	}
	v, _ := m.Get("a")
	if v != "second" {
		t.Fatalf("Get(a) = %q, want %q", v, "second")
	}
}

func TestIndexOfAndAtAreLeftInverses(t *testing.T) {
	m := New[int]()
	for i, k := range []string{"c", "a", "e", "b", "d"} {
		m.Set(k, i)
	}
	for i := 0; i < m.Size(); i++ {
		k, _, _ := m.At(i)
		if got := m.IndexOf(k); got != i {
			t.Fatalf("IndexOf(At(%d)=%q) = %d, want %d", i, k, got, i)
		}
	}
}

func TestIndexOfEncodesInsertPointOnMiss(t *testing.T) {
	m := New[int]()
	m.Set("b", 1)
	m.Set("d", 2)
	m.Set("f", 3)

	idx := m.IndexOf("a")
	if idx != -1 {
		t.Fatalf("IndexOf(a) = %d, want -1 (insert at 0)", idx)
	}
	idx = m.IndexOf("c")
	if idx != -2 {
		t.Fatalf("IndexOf(c) = %d, want -2 (insert at 1)", idx)
	}
	idx = m.IndexOf("z")
	if idx != -4 {
		t.Fatalf("IndexOf(z) = %d, want -4 (insert at 3)", idx)
	}
}

func TestNegativeIndexFromEnd(t *testing.T) {
	m := New[int]()
	for i, k := range []string{"a", "b", "c"} {
		m.Set(k, i)
	}
	k, _, ok := m.At(-1)
	if !ok || k != "c" {
		t.Fatalf("At(-1) = %q, %v, want c, true", k, ok)
	}
	k, _, ok = m.At(-3)
	if !ok || k != "a" {
		t.Fatalf("At(-3) = %q, %v, want a, true", k, ok)
	}
	_, _, ok = m.At(-4)
	if ok {
		t.Fatal("At(-4) should be out of range")
	}
}

func TestDeleteAndRemoveAreNoOpOnMiss(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	if m.Delete("missing") {
		t.Fatal("Delete on absent key should return false")
	}
	if m.Remove(5) {
		t.Fatal("Remove on out-of-range index should return false")
	}
	if m.Size() != 1 {
		t.Fatalf("size changed after no-op removals: %d", m.Size())
	}
}

func TestRemoveByPositionalIndex(t *testing.T) {
	m := New[int]()
	for i, k := range []string{"a", "b", "c", "d"} {
		m.Set(k, i)
	}
	if !m.Remove(1) { // "b"
		t.Fatal("Remove(1) should succeed")
	}
	if m.Has("b") {
		t.Fatal("b should have been removed")
	}
	if m.Size() != 3 {
		t.Fatalf("size = %d, want 3", m.Size())
	}
	k, _, _ := m.At(1)
	if k != "c" {
		t.Fatalf("At(1) = %q after removal, want c", k)
	}
}

func TestSliceValuesDefaultsToFullRange(t *testing.T) {
	m := New[int]()
	for i, k := range []string{"a", "b", "c"} {
		m.Set(k, i)
	}
	var got []int
	for v := range m.SliceValues() {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("SliceValues() = %v, want [0 1 2]", got)
	}
}

func TestSliceValuesBoundedWindow(t *testing.T) {
	m := New[int]()
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		m.Set(k, i)
	}
	var got []int
	for v := range m.SliceValues(1, 3) {
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("SliceValues(1,3) = %v, want [1 2]", got)
	}
}

func TestRetroSliceValuesDefaultsReverseFull(t *testing.T) {
	m := New[int]()
	for i, k := range []string{"a", "b", "c"} {
		m.Set(k, i)
	}
	var got []int
	for v := range m.RetroSliceValues() {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 2 || got[2] != 0 {
		t.Fatalf("RetroSliceValues() = %v, want [2 1 0]", got)
	}
}

func TestAssignBulkRebuild(t *testing.T) {
	m := New[int]()
	m.Set("stale", 99)
	m.Assign([]Item[int]{
		{Key: "b", Value: 2},
		{Key: "a", Value: 1},
		{Key: "c", Value: 3},
	})
	if m.Has("stale") {
		t.Fatal("Assign should discard prior contents")
	}
	if m.Size() != 3 {
		t.Fatalf("size = %d, want 3", m.Size())
	}
	k, v, _ := m.At(0)
	if k != "a" || v != 1 {
		t.Fatalf("At(0) = (%q, %d), want (a, 1)", k, v)
	}
}

func TestAssignDedupesKeepingLastOccurrence(t *testing.T) {
	m := New[int]()
	m.Assign([]Item[int]{
		{Key: "a", Value: 1},
		{Key: "a", Value: 2},
	})
	if m.Size() != 1 {
		t.Fatalf("size = %d, want 1 after dedup", m.Size())
	}
	v, _ := m.Get("a")
	if v != 2 {
		t.Fatalf("Get(a) = %d, want 2 (last occurrence wins)", v)
	}
}

func TestFirstLastOnEmptyMap(t *testing.T) {
	m := New[int]()
	if _, _, ok := m.First(); ok {
		t.Fatal("First on empty map should report ok=false")
	}
	if _, _, ok := m.Last(); ok {
		t.Fatal("Last on empty map should report ok=false")
	}
	if !m.IsEmpty() {
		t.Fatal("IsEmpty should be true")
	}
}
