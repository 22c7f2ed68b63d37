package patchlog

import (
	"github.com/rs/zerolog"

	"github.com/cuemby/warren/pkg/log"
	"github.com/cuemby/warren/pkg/types"
)

// Sink adapts a Log to sink.BroadcastSink, so a Store can be configured
// to durably persist every committed patch without the host writing its
// own adapter. A failed Record is logged and swallowed rather than
// propagated, since BroadcastSink.Post has no error return (spec §4.10
// assumes Post is best-effort; a host wanting a stronger guarantee must
// check the log independently).
type Sink struct {
	log    *Log
	logger zerolog.Logger
}

// NewSink wraps l as a BroadcastSink.
func NewSink(l *Log) *Sink {
	return &Sink{log: l, logger: log.WithComponent("patchlog")}
}

// Post implements sink.BroadcastSink.
func (s *Sink) Post(envelope types.Envelope) {
	if err := s.log.Record(envelope); err != nil {
		s.logger.Error().Err(err).Str("transaction_id", envelope.ID).Msg("failed to persist transaction envelope")
	}
}
