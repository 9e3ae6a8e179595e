// FILE: logfan/src/internal/format/console.go
package format

import (
	"bytes"
	"fmt"

	"logfan/src/internal/core"
)

// ANSI color per severity, keyed by priority order.
var levelColors = map[core.Severity]string{
	core.LevelError: "\x1b[31m", // red
	core.LevelWarn:  "\x1b[33m", // yellow
	core.LevelInfo:  "\x1b[32m", // green
	core.LevelHTTP:  "\x1b[35m", // magenta
	core.LevelDebug: "\x1b[34m", // blue
}

const colorReset = "\x1b[0m"

// NewConsoleChain builds the interactive console chain: timestamp,
// error-detail expansion, padded level label, one human-readable line
// per event. Colors are applied only when color is true (the sink
// decides based on TTY detection).
func NewConsoleChain(color bool) *Chain {
	return &Chain{
		name: "console",
		stages: []Stage{
			StampTimestamp(TimestampLayout),
			ExpandErrorDetail,
			PadLevelLabel(levelLabelWidth),
		},
		render: renderText(color),
	}
}

func renderText(color bool) func(*Record) []byte {
	return func(r *Record) []byte {
		var buf bytes.Buffer
		buf.WriteString(r.Timestamp)
		buf.WriteString(" [")
		if color {
			buf.WriteString(levelColors[r.Event.Level])
			buf.WriteString(r.Label)
			buf.WriteString(colorReset)
		} else {
			buf.WriteString(r.Label)
		}
		buf.WriteString("]: ")
		buf.WriteString(r.Event.Message)

		// Structured fields follow the message as key=value pairs in
		// stable order.
		for _, key := range r.Fields.Keys() {
			buf.WriteByte(' ')
			buf.WriteString(key)
			buf.WriteByte('=')
			buf.WriteString(fieldText(r.Fields[key]))
		}

		buf.WriteByte('\n')
		return buf.Bytes()
	}
}

func fieldText(v core.Value) string {
	switch v.Kind {
	case core.KindString:
		return v.Str
	case core.KindInt:
		return fmt.Sprintf("%d", v.Int)
	case core.KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case core.KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case core.KindMap, core.KindList:
		return fmt.Sprintf("%v", v.Interface())
	default:
		return v.Str
	}
}
