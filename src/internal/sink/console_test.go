// FILE: logfan/src/internal/sink/console_test.go
package sink

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"logfan/src/internal/core"
	"logfan/src/internal/format"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func event(level core.Severity, msg string) core.LogEvent {
	return core.LogEvent{
		Time:    time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC),
		Level:   level,
		Message: msg,
	}
}

func TestAdmission(t *testing.T) {
	testCases := []struct {
		name      string
		admission Admission
		level     core.Severity
		admitted  bool
	}{
		{"MinAdmitsMoreSevere", Admission{Min: core.LevelWarn}, core.LevelError, true},
		{"MinAdmitsEqual", Admission{Min: core.LevelWarn}, core.LevelWarn, true},
		{"MinRejectsLessSevere", Admission{Min: core.LevelWarn}, core.LevelInfo, false},
		{"ExclusiveAdmitsExact", Admission{Min: core.LevelWarn, Exclusive: true}, core.LevelWarn, true},
		{"ExclusiveRejectsMoreSevere", Admission{Min: core.LevelWarn, Exclusive: true}, core.LevelError, false},
		{"ExclusiveRejectsLessSevere", Admission{Min: core.LevelWarn, Exclusive: true}, core.LevelInfo, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.admitted, tc.admission.Admits(tc.level))
		})
	}
}

func TestConsoleSinkWrites(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(ConsoleOptions{
		Out:       &buf,
		Chain:     format.NewConsoleChain(false),
		Admission: Admission{Min: core.LevelDebug},
	}, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	s.Input() <- event(core.LevelInfo, "first")
	s.Input() <- event(core.LevelDebug, "second")
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Equal(t, uint64(2), s.Stats().TotalWritten)
}

func TestConsoleSinkAdmission(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(ConsoleOptions{
		Out:       &buf,
		Chain:     format.NewConsoleChain(false),
		Admission: Admission{Min: core.LevelWarn},
	}, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	s.Input() <- event(core.LevelError, "kept")
	s.Input() <- event(core.LevelDebug, "filtered")
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.NotContains(t, out, "filtered")
	assert.Equal(t, uint64(1), s.Stats().TotalWritten)
}

func TestConsoleSinkFIFO(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(ConsoleOptions{
		Out:       &buf,
		Chain:     format.NewConsoleChain(false),
		Admission: Admission{Min: core.LevelDebug},
	}, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	for i := 0; i < 20; i++ {
		s.Input() <- event(core.LevelInfo, fmt.Sprintf("event-%02d", i))
	}
	s.Stop()

	out := buf.String()
	last := -1
	for i := 0; i < 20; i++ {
		idx := bytes.Index(buf.Bytes(), []byte(fmt.Sprintf("event-%02d", i)))
		require.Greater(t, idx, last, "out of order in %q", out)
		last = idx
	}
}

func TestConsoleSinkSilent(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(ConsoleOptions{
		Out:       &buf,
		Silent:    true,
		Chain:     format.NewConsoleChain(false),
		Admission: Admission{Min: core.LevelDebug},
	}, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	s.Input() <- event(core.LevelInfo, "invisible")
	s.Stop()

	assert.Empty(t, buf.String())
}

func TestConsoleSinkStopIdempotent(t *testing.T) {
	s := NewConsoleSink(ConsoleOptions{
		Out:       &bytes.Buffer{},
		Chain:     format.NewConsoleChain(false),
		Admission: Admission{Min: core.LevelDebug},
	}, newTestLogger())

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()
}
