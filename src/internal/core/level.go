// FILE: logfan/src/internal/core/level.go
package core

import (
	"fmt"
	"strings"
)

// Severity ranks the importance of a log event. Lower values are more
// severe: error is always admitted by any sink, debug only by the most
// verbose ones.
type Severity int

const (
	LevelError Severity = iota
	LevelWarn
	LevelInfo
	LevelHTTP
	LevelDebug
)

var levelNames = [...]string{"error", "warn", "info", "http", "debug"}

func (s Severity) String() string {
	if s < LevelError || s > LevelDebug {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return levelNames[s]
}

// Priority returns the numeric rank of the severity, 0 for error.
func (s Severity) Priority() int {
	return int(s)
}

// Admits reports whether a destination with minimum level min accepts
// an event at level s.
func Admits(s, min Severity) bool {
	return s.Priority() <= min.Priority()
}

// ParseSeverity converts a level name to its Severity value.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "http":
		return LevelHTTP, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelDebug, fmt.Errorf("unknown severity: %q", name)
	}
}
