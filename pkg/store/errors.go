package store

import "errors"

// ErrAlreadyInTransaction is returned by Begin when a transaction is
// already open.
var ErrAlreadyInTransaction = errors.New("store: a transaction is already in progress")

// ErrNotInTransaction is returned by End, or by any record mutation, when
// no transaction is open.
var ErrNotInTransaction = errors.New("store: no transaction is in progress")

// ErrMutationConflict is returned by ApplyTransaction when a local
// transaction is in progress.
var ErrMutationConflict = errors.New("store: cannot apply a remote transaction while a local one is open")

// ErrUnknownTransaction is returned by Undo/Redo when the named
// transaction id is not in the undo/redo log.
var ErrUnknownTransaction = errors.New("store: transaction id not found in the undo/redo log")
