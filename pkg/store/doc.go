// Package store implements the store and transaction engine (C9): the
// single entry point through which callers open transactions, mutate
// records, commit, undo, redo, and apply transactions received from other
// peers. A Store is single-threaded cooperative (spec §5) — it performs
// no locking of its own; concurrent external callers must serialize
// access themselves.
package store
