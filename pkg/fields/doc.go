/*
Package fields implements the four CRDT field algorithms a record's values
are built from: Register (last-writer-wins scalar), List (ordered sequence
with tombstones), Map (last-writer-wins per key), and Text (a list
specialized for runs of characters).

# Shared shape

Every field type exposes three kinds of operation:

  - A local mutator (Set, Splice, ...) called while a transaction is open.
    It returns the pair the transaction engine needs to record: a
    types.FieldPatch (the wire payload, keyed by clock/storeId) and a
    types.FieldChange (the observer payload, keyed by previous/current or
    positional index).
  - ApplyRemote, which folds an incoming types.FieldPatch from a peer (or a
    redo) into the field's state and returns the resulting FieldChange, if
    the visible value actually moved.
  - Retract (Register, Map only), the structural inverse of ApplyRemote
    used to undo a single historical write by clock/storeId rather than by
    value. List and Text don't need a separate inverse: undoing either is
    expressed by swapping a patch's Removed/Inserted sets and replaying it
    through the ordinary ApplyRemote path (see pkg/store's undo/redo
    dispatch).

# Last-writer-wins ordering

Register and Map both resolve conflicting writes with the same rule: order
writes by the pair (clock, storeId), newest first, and keep a full history
chain rather than a single value, so a later-arriving write with an older
(clock, storeId) still inserts in its correct historical position even if
it doesn't become the visible head.

# Lists, tombstones, and the cemetery

List and Text identify elements by pkg/ident triplex id rather than by
position, storing them in a pkg/omap.Map so position and id both resolve
in O(log n). A deletion that arrives before -- or races with -- the
corresponding insertion is handled by the cemetery: a per-identifier
deletion counter for ids not currently present, so a late insertion can be
recognized and silently dropped instead of resurrecting a deleted element.
*/
package fields
