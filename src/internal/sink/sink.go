// FILE: logfan/src/internal/sink/sink.go
package sink

import (
	"context"
	"time"

	"logfan/src/internal/core"
)

// DefaultBufferSize for sink input channels.
const DefaultBufferSize = 1000

// Sink is one configured output destination for log events. Each sink
// owns a buffered input channel and a processing goroutine: events are
// written in dispatch order per sink (FIFO) and producers never block
// waiting for the destination.
type Sink interface {
	// Input returns the channel the router dispatches events to
	Input() chan<- core.LogEvent

	// Start begins processing dispatched events
	Start(ctx context.Context) error

	// Stop flushes buffered events and shuts the sink down
	Stop()

	// Admits reports whether this sink accepts events at the level
	Admits(level core.Severity) bool

	// Stats returns a snapshot of sink counters
	Stats() Stats
}

// Stats is a point-in-time snapshot of one sink's counters.
type Stats struct {
	Name         string
	TotalWritten uint64
	TotalDropped uint64
	StartTime    time.Time
	LastWrite    time.Time
}

// Admission is a sink's level acceptance rule, fixed at construction.
// Min admits the level and everything more severe; Exclusive restricts
// the sink to exactly that level (e.g. a warn-only artifact family).
type Admission struct {
	Min       core.Severity
	Exclusive bool
}

func (a Admission) Admits(level core.Severity) bool {
	if a.Exclusive {
		return level == a.Min
	}
	return core.Admits(level, a.Min)
}
