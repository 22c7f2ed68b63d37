// Package patchlog is an optional host-side persistence adapter for
// committed transaction envelopes, adapted from warren's
// pkg/storage.BoltStore. Spec §1 leaves durability entirely to the
// host; Log is one concrete way a host can keep one: every envelope
// posted to a sink.BroadcastSink is recorded into a bucket keyed by its
// originating store id, under its duplex transaction id -- which
// already sorts in commit order as a plain byte-string key (spec
// §4.1). Replay/ReplayInto turn that durable record back into live
// state by feeding it through store.ApplyTransaction, letting a peer
// that restarted with an empty Store recover a remote's contribution
// without ever needing to trust the log's bytes directly.
package patchlog
