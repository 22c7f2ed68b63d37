package fields

import (
	"testing"

	"github.com/cuemby/warren/pkg/types"
)

func TestListPushAppendsInOrder(t *testing.T) {
	l := NewList()
	l.Push(1, "a")
	l.Push(1, "b")
	l.Push(1, "c")
	if l.Size() != 3 {
		t.Fatalf("size = %d, want 3", l.Size())
	}
	for i, want := range []string{"a", "b", "c"} {
		v, ok := l.Get(i)
		if !ok || v != want {
			t.Fatalf("Get(%d) = %v, want %v", i, v, want)
		}
	}
}

func TestListSpliceRemoveAndInsert(t *testing.T) {
	l := NewList()
	l.Assign(1, []any{"a", "b", "c", "d"})
	patch, change := l.Splice(1, 1, 2, []any{"x"}) // remove "b","c"; insert "x"

	if l.Size() != 3 {
		t.Fatalf("size = %d, want 3", l.Size())
	}
	v, _ := l.Get(1)
	if v != "x" {
		t.Fatalf("Get(1) = %v, want x", v)
	}
	if len(patch.List.Removed) != 2 {
		t.Fatalf("patch removed = %d entries, want 2", len(patch.List.Removed))
	}
	if len(patch.List.Inserted) != 1 {
		t.Fatalf("patch inserted = %d entries, want 1", len(patch.List.Inserted))
	}
	if len(change.List) != 3 { // two removes + one insert
		t.Fatalf("change entries = %d, want 3", len(change.List))
	}
}

func TestListApplyRemoteConverges(t *testing.T) {
	a := NewList()
	patch, _ := a.Assign(1, []any{"a", "b", "c"})

	// Simulate a second peer by replaying the same patch through
	// ApplyRemote against a fresh list.
	b := NewList()
	b.ApplyRemote(*patch.List)

	if b.Size() != 3 {
		t.Fatalf("size = %d, want 3", b.Size())
	}
	for i, want := range []string{"a", "b", "c"} {
		v, ok := b.Get(i)
		if !ok || v != want {
			t.Fatalf("Get(%d) = %v, want %v", i, v, want)
		}
	}
}

func TestListApplyRemoteIdempotentOnRedelivery(t *testing.T) {
	a := NewList()
	patch, _ := a.Push(1, "a")

	b := NewList()
	b.ApplyRemote(*patch.List)
	b.ApplyRemote(*patch.List) // redelivery of the same patch

	if b.Size() != 1 {
		t.Fatalf("size = %d after redelivery, want 1", b.Size())
	}
}

func TestListCemeteryDropsLateInsertAfterDelete(t *testing.T) {
	l := NewList()
	insertPatch, _ := l.Push(1, "a")
	removePatch, _ := l.RemoveAt(1, 0, 1)

	b := NewList()
	// Remote delete arrives before the insert it targets.
	b.ApplyRemote(*removePatch.List)
	if b.Size() != 0 {
		t.Fatalf("size = %d after premature delete, want 0", b.Size())
	}
	b.ApplyRemote(*insertPatch.List)
	if b.Size() != 0 {
		t.Fatalf("size = %d after late insert, want 0 (cemetery should drop it)", b.Size())
	}
}

func TestListUndoBySwappingRemovedAndInserted(t *testing.T) {
	l := NewList()
	patch, _ := l.Push(1, "a")

	// Undo: swap removed/inserted and replay.
	undone := types.ListPatch{
		Clock:    patch.List.Clock,
		Removed:  patch.List.Inserted,
		Inserted: patch.List.Removed,
	}
	l.ApplyRemote(undone)
	if l.Size() != 0 {
		t.Fatalf("size = %d after undo, want 0", l.Size())
	}

	// Redo: apply the original patch as-is.
	l.ApplyRemote(*patch.List)
	if l.Size() != 1 {
		t.Fatalf("size = %d after redo, want 1", l.Size())
	}
}
