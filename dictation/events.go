package dictation

import (
	"log/slog"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/internal/types"
)

// EventSink receives status transitions for display. Publish must not
// block; the control loop calls it inline.
type EventSink interface {
	Publish(ev types.StatusEvent)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(ev types.StatusEvent)

func (f SinkFunc) Publish(ev types.StatusEvent) { f(ev) }

// MultiSink fans one event out to several sinks.
func MultiSink(sinks ...EventSink) EventSink {
	return SinkFunc(func(ev types.StatusEvent) {
		for _, s := range sinks {
			if s != nil {
				s.Publish(ev)
			}
		}
	})
}

// LogSink writes status transitions to the structured log.
func LogSink() EventSink {
	return SinkFunc(func(ev types.StatusEvent) {
		slog.Info("status",
			"status", string(ev.Status),
			"session_id", ev.SessionID,
			"detail", ev.Detail,
		)
	})
}
