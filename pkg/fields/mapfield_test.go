package fields

import (
	"testing"

	"github.com/cuemby/warren/pkg/types"
)

func mapPatchOf(key string, value any, clock uint64, storeID uint32, present bool) types.MapPatch {
	return types.MapPatch{key: types.MapEntryPatch{Value: value, Present: present, Clock: clock, StoreID: storeID}}
}

func TestMapFieldSetAndGet(t *testing.T) {
	m := NewMapField(true)
	_, change := m.Set(1, 1, "color", "red")
	if v, ok := m.Get("color"); !ok || v != "red" {
		t.Fatalf("Get(color) = %v, %v, want red, true", v, ok)
	}
	if change.Map[0].Previous != nil || change.Map[0].Current != "red" {
		t.Fatalf("change = %+v, want previous=nil current=red", change.Map[0])
	}
}

func TestMapFieldDeleteIsNoOpOnMissingKey(t *testing.T) {
	m := NewMapField(true)
	patch, change := m.Delete(1, 1, "missing")
	if len(patch.Map) != 0 {
		t.Fatalf("patch should be empty for a no-op delete, got %+v", patch.Map)
	}
	if change.Map != nil {
		t.Fatalf("change should be empty for a no-op delete, got %+v", change.Map)
	}
}

func TestMapFieldDeleteRemovesVisibility(t *testing.T) {
	m := NewMapField(true)
	m.Set(1, 1, "color", "red")
	m.Delete(2, 1, "color")
	if m.Has("color") {
		t.Fatal("color should be absent after delete")
	}
}

func TestMapFieldClearDeletesAllPresentKeys(t *testing.T) {
	m := NewMapField(true)
	m.Set(1, 1, "a", 1)
	m.Set(1, 1, "b", 2)
	patch, change := m.Clear(2, 1)
	if len(patch.Map) != 2 {
		t.Fatalf("patch should touch 2 keys, got %d", len(patch.Map))
	}
	if len(change.Map) != 2 {
		t.Fatalf("change should report 2 keys, got %d", len(change.Map))
	}
	if m.Has("a") || m.Has("b") {
		t.Fatal("all keys should be absent after Clear")
	}
}

func TestMapFieldApplyRemoteOlderWriteLoses(t *testing.T) {
	m := NewMapField(true)
	m.Set(5, 1, "color", "red")

	change := m.ApplyRemote(mapPatchOf("color", "blue", 3, 1, true))
	if len(change.Map) != 0 {
		t.Fatalf("older remote write should not be visible, got change=%+v", change.Map)
	}
	if v, _ := m.Get("color"); v != "red" {
		t.Fatalf("Get(color) = %v, want red (unaffected)", v)
	}
}

func TestMapFieldApplyRemoteNewerWriteWins(t *testing.T) {
	m := NewMapField(true)
	m.Set(5, 1, "color", "red")

	change := m.ApplyRemote(mapPatchOf("color", "blue", 9, 1, true))
	if len(change.Map) != 1 || change.Map[0].Current != "blue" {
		t.Fatalf("change = %+v, want one entry current=blue", change.Map)
	}
	if v, _ := m.Get("color"); v != "blue" {
		t.Fatalf("Get(color) = %v, want blue", v)
	}
}

func TestMapFieldRetractUndoesAWrite(t *testing.T) {
	m := NewMapField(true)
	m.Set(1, 1, "color", "red")
	m.Set(2, 1, "color", "blue")

	patch := mapPatchOf("color", "blue", 2, 1, true)
	change := m.Retract(patch)
	if len(change.Map) != 1 || change.Map[0].Current != "red" {
		t.Fatalf("change = %+v, want one entry current=red", change.Map)
	}
	if v, _ := m.Get("color"); v != "red" {
		t.Fatalf("Get(color) = %v, want red after retracting blue", v)
	}
}

func TestMapFieldRetractOnlyWriteRemovesKeyEntirely(t *testing.T) {
	m := NewMapField(true)
	m.Set(1, 1, "color", "red")

	patch := mapPatchOf("color", "red", 1, 1, true)
	change := m.Retract(patch)
	if len(change.Map) != 1 || change.Map[0].Current != nil {
		t.Fatalf("change = %+v, want one entry current=nil", change.Map)
	}
	if m.Has("color") {
		t.Fatal("color should be fully absent after retracting its only write")
	}
}
