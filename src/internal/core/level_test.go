// FILE: logfan/src/internal/core/level_test.go
package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrder(t *testing.T) {
	assert.Less(t, LevelError.Priority(), LevelWarn.Priority())
	assert.Less(t, LevelWarn.Priority(), LevelInfo.Priority())
	assert.Less(t, LevelInfo.Priority(), LevelHTTP.Priority())
	assert.Less(t, LevelHTTP.Priority(), LevelDebug.Priority())
}

func TestAdmits(t *testing.T) {
	testCases := []struct {
		name     string
		event    Severity
		min      Severity
		admitted bool
	}{
		{"ErrorAlwaysAdmitted", LevelError, LevelError, true},
		{"ErrorAdmittedByWarnSink", LevelError, LevelWarn, true},
		{"WarnAdmittedByWarnSink", LevelWarn, LevelWarn, true},
		{"InfoRejectedByWarnSink", LevelInfo, LevelWarn, false},
		{"HTTPRejectedByWarnSink", LevelHTTP, LevelWarn, false},
		{"DebugRejectedByWarnSink", LevelDebug, LevelWarn, false},
		{"DebugAdmittedByDebugSink", LevelDebug, LevelDebug, true},
		{"HTTPAdmittedByHTTPSink", LevelHTTP, LevelHTTP, true},
		{"DebugRejectedByHTTPSink", LevelDebug, LevelHTTP, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.admitted, Admits(tc.event, tc.min))
		})
	}
}

func TestParseSeverity(t *testing.T) {
	testCases := []struct {
		input       string
		expected    Severity
		expectError bool
	}{
		{"error", LevelError, false},
		{"WARN", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" info ", LevelInfo, false},
		{"http", LevelHTTP, false},
		{"debug", LevelDebug, false},
		{"verbose", LevelDebug, true},
		{"", LevelDebug, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			level, err := ParseSeverity(tc.input)
			if tc.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, level)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "http", LevelHTTP.String())
	assert.Equal(t, "severity(99)", Severity(99).String())
}
