// Package sink defines the BroadcastSink contract (C10's transport half):
// the single hook a host uses to receive committed transaction envelopes
// for delivery to other peers. Wiring an actual transport (WebSocket,
// gRPC, a message broker) is deliberately outside the core, per spec §1.
package sink

import "github.com/cuemby/warren/pkg/types"

// BroadcastSink is implemented by the host. Post is called exactly once
// per committed local transaction that produced a non-empty patch, per
// spec §4.10. Post is assumed synchronous-fast; a host whose transport
// can block must adapt it with its own queue (spec §5).
type BroadcastSink interface {
	Post(envelope types.Envelope)
}

// NullSink discards every envelope. Useful for a store that only needs
// local change observation, or in tests.
type NullSink struct{}

// Post implements BroadcastSink by doing nothing.
func (NullSink) Post(types.Envelope) {}

// RecordingSink collects every posted envelope in memory, in post order,
// for use in tests and the CLI demo's two-peer simulation.
type RecordingSink struct {
	Envelopes []types.Envelope
}

// Post implements BroadcastSink by appending to Envelopes.
func (s *RecordingSink) Post(envelope types.Envelope) {
	s.Envelopes = append(s.Envelopes, envelope)
}
