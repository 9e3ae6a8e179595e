// FILE: logfan/src/internal/core/entry.go
package core

import (
	"time"
)

// LogEvent is a single log record flowing through the pipeline. It is
// constructed once by the router (or by fault capture) and never
// mutated afterwards; only its rendered form is persisted.
type LogEvent struct {
	Time    time.Time
	Level   Severity
	Message string
	Fields  Fields
	Err     *ErrorDetail
}

// ErrorDetail carries the message and stack trace of a captured fault.
type ErrorDetail struct {
	Message string
	Stack   string
}
