// FILE: logfan/src/internal/service/router.go
package service

import (
	"sync/atomic"
	"time"

	"logfan/src/internal/core"
	"logfan/src/internal/sink"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Process-wide router floor per environment. Production keeps info and
// more severe; everything else processes all levels. The production
// floor is a single documented constant, applied once before any
// sink-level filtering.
const (
	ProductionFloor  = core.LevelInfo
	DevelopmentFloor = core.LevelDebug
)

// Logger is the narrow capability handed to components that only need
// to emit events.
type Logger interface {
	Error(msg string, fields ...map[string]any)
	Warn(msg string, fields ...map[string]any)
	Info(msg string, fields ...map[string]any)
	HTTP(msg string, fields ...map[string]any)
	Debug(msg string, fields ...map[string]any)
}

// Router stamps incoming events and fans them out to every sink whose
// admission rule accepts the level: console first, then file sinks in
// declaration order. A full or failing sink never blocks the caller
// or the other sinks.
type Router struct {
	service string
	floor   core.Severity
	console sink.Sink
	sinks   []sink.Sink
	guard   *rate.Limiter
	logger  *log.Logger

	totalDispatched atomic.Uint64
	totalBelowFloor atomic.Uint64
	totalThrottled  atomic.Uint64
	totalQueueDrops atomic.Uint64
}

// RouterStats is a point-in-time snapshot of router counters.
type RouterStats struct {
	TotalDispatched uint64
	TotalBelowFloor uint64
	TotalThrottled  uint64
	TotalQueueDrops uint64
	Sinks           []sink.Stats
}

func newRouter(service string, floor core.Severity, console sink.Sink, guard *rate.Limiter, logger *log.Logger) *Router {
	r := &Router{
		service: service,
		floor:   floor,
		console: console,
		guard:   guard,
		logger:  logger,
	}
	if console != nil {
		r.sinks = append(r.sinks, console)
	}
	return r
}

func (r *Router) addSink(s sink.Sink) {
	r.sinks = append(r.sinks, s)
}

// The five producer entry points. None of them ever fails observably:
// logging must never be the reason a request fails.

func (r *Router) Error(msg string, fields ...map[string]any) {
	r.dispatch(core.LevelError, msg, fields)
}

func (r *Router) Warn(msg string, fields ...map[string]any) {
	r.dispatch(core.LevelWarn, msg, fields)
}

func (r *Router) Info(msg string, fields ...map[string]any) {
	r.dispatch(core.LevelInfo, msg, fields)
}

// HTTP ingests one pre-rendered access-log line per completed request.
func (r *Router) HTTP(msg string, fields ...map[string]any) {
	r.dispatch(core.LevelHTTP, msg, fields)
}

func (r *Router) Debug(msg string, fields ...map[string]any) {
	r.dispatch(core.LevelDebug, msg, fields)
}

func (r *Router) dispatch(level core.Severity, msg string, fields []map[string]any) {
	if !core.Admits(level, r.floor) {
		r.totalBelowFloor.Add(1)
		return
	}
	if r.guard != nil && level == core.LevelDebug && !r.guard.Allow() {
		r.totalThrottled.Add(1)
		return
	}

	event := core.LogEvent{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  mergeFields(fields),
	}

	for _, s := range r.sinks {
		if !s.Admits(level) {
			continue
		}
		select {
		case s.Input() <- event:
		default:
			// Sink buffer full: drop for that sink only.
			r.totalQueueDrops.Add(1)
			r.logger.Warn("msg", "Sink buffer full, event dropped",
				"component", "router",
				"sink", s.Stats().Name,
				"level", level.String())
		}
	}
	r.totalDispatched.Add(1)
}

// reportWriteFailure surfaces a file sink write failure as a one-line
// warning on the console sink only, so a broken file destination can
// never trigger a recursive failure through the file sinks.
func (r *Router) reportWriteFailure(name string, err error) {
	if r.console == nil {
		return
	}
	event := core.LogEvent{
		Time:    time.Now(),
		Level:   core.LevelWarn,
		Message: "log write failed, event dropped",
		Fields: core.Fields{
			"sink":   core.String(name),
			"reason": core.String(err.Error()),
		},
	}
	select {
	case r.console.Input() <- event:
	default:
	}
}

// Stats snapshots the router and all sink counters.
func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		TotalDispatched: r.totalDispatched.Load(),
		TotalBelowFloor: r.totalBelowFloor.Load(),
		TotalThrottled:  r.totalThrottled.Load(),
		TotalQueueDrops: r.totalQueueDrops.Load(),
	}
	for _, s := range r.sinks {
		stats.Sinks = append(stats.Sinks, s.Stats())
	}
	return stats
}

func mergeFields(fields []map[string]any) core.Fields {
	switch len(fields) {
	case 0:
		return nil
	case 1:
		return core.ConvertMap(fields[0])
	default:
		merged := core.Fields{}
		for _, m := range fields {
			for k, v := range m {
				merged[k] = core.Convert(v)
			}
		}
		return merged
	}
}
