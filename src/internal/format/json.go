// FILE: logfan/src/internal/format/json.go
package format

import (
	"encoding/json"
	"fmt"
)

// Reserved keys the chain always owns; colliding structured fields are
// kept but never override them.
const (
	timestampKey = "timestamp"
	levelKey     = "level"
	messageKey   = "message"
	serviceKey   = "service"
	stackKey     = "stack"
)

// NewJSONChain builds the machine-readable chain used by all file
// sinks and by the production console: timestamp, error-detail
// expansion, one JSON object per line carrying the service name.
func NewJSONChain(service string) *Chain {
	return &Chain{
		name: "json",
		stages: []Stage{
			StampTimestamp(TimestampLayout),
			ExpandErrorDetail,
		},
		render: renderJSON(service),
	}
}

func renderJSON(service string) func(*Record) []byte {
	return func(r *Record) []byte {
		output := map[string]any{
			timestampKey: r.Timestamp,
			levelKey:     r.Event.Level.String(),
			messageKey:   r.Event.Message,
			serviceKey:   service,
		}

		for key, val := range r.Fields {
			if _, reserved := output[key]; reserved {
				continue
			}
			output[key] = val.Interface()
		}

		result, err := json.Marshal(output)
		if err != nil {
			// Fields only hold plain scalars and maps, so this path
			// should be unreachable. Formatting stays total regardless.
			fallback := fmt.Sprintf("{%q:%q,%q:%q,%q:%q}",
				timestampKey, r.Timestamp,
				levelKey, r.Event.Level.String(),
				messageKey, r.Event.Message)
			return append([]byte(fallback), '\n')
		}
		return append(result, '\n')
	}
}
