// FILE: logfan/src/internal/format/chain.go
package format

import (
	"strings"

	"logfan/src/internal/core"
)

// TimestampLayout is the fixed textual pattern used by every chain.
const TimestampLayout = "2006-01-02 15:04:05"

// levelLabelWidth fits the longest level names ("error", "debug").
const levelLabelWidth = 5

// Record is the mutable working copy a chain operates on. The original
// event is never modified; stages extend the record and the final
// render turns it into bytes.
type Record struct {
	Event     core.LogEvent
	Timestamp string
	Label     string
	Fields    core.Fields
}

// Stage is one pure transformation in a formatter chain.
type Stage func(*Record)

// Chain applies an ordered sequence of stages to a log event and
// renders the result. Formatting is total: a chain never fails,
// unrenderable values are stringified on the way in.
type Chain struct {
	name   string
	stages []Stage
	render func(*Record) []byte
}

// Name returns the chain's type name.
func (c *Chain) Name() string {
	return c.name
}

// Format renders the event. Calling Format twice on the same event
// yields identical bytes; the chain keeps no state between calls.
func (c *Chain) Format(event core.LogEvent) []byte {
	rec := &Record{
		Event:  event,
		Label:  event.Level.String(),
		Fields: event.Fields.Clone(),
	}
	for _, stage := range c.stages {
		stage(rec)
	}
	return c.render(rec)
}

// StampTimestamp formats the event instant into the record. It must
// run before any render so every output carries the same textual
// timestamp.
func StampTimestamp(layout string) Stage {
	return func(r *Record) {
		r.Timestamp = r.Event.Time.Format(layout)
	}
}

// ExpandErrorDetail appends a captured stack trace as an additional
// field. Events without error detail pass through untouched.
func ExpandErrorDetail(r *Record) {
	if r.Event.Err == nil {
		return
	}
	if r.Fields == nil {
		r.Fields = core.Fields{}
	}
	if r.Event.Err.Message != "" && r.Event.Err.Message != r.Event.Message {
		r.Fields["error"] = core.String(r.Event.Err.Message)
	}
	r.Fields[stackKey] = core.String(r.Event.Err.Stack)
}

// PadLevelLabel pads the level label to a fixed column width so
// console lines align. Used by development console chains only.
func PadLevelLabel(width int) Stage {
	return func(r *Record) {
		if len(r.Label) < width {
			r.Label += strings.Repeat(" ", width-len(r.Label))
		}
	}
}
