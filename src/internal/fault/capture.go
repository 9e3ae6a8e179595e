// FILE: logfan/src/internal/fault/capture.go
package fault

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"logfan/src/internal/core"
	"logfan/src/internal/format"

	"github.com/lixenwraith/log"
)

// Fixed-name, append-only fault artifacts. These never rotate by date
// or size; they only need to survive the process failure that
// produced the record.
const (
	PanicFile     = "uncaught-exceptions.log"
	RejectionFile = "unhandled-rejections.log"
)

// Capture records process faults to two dedicated destinations,
// bypassing the router and its level floor entirely. Records are
// written synchronously and fsynced before Capture returns, so they
// are durable even when the process dies right after.
type Capture struct {
	service string
	chain   *format.Chain
	logger  *log.Logger

	mu         sync.Mutex
	panics     *os.File
	rejections *os.File
}

// New opens the fault artifacts in dir.
func New(dir, service string, logger *log.Logger) (*Capture, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("fault: failed to create directory %q: %w", dir, err)
	}

	panics, err := os.OpenFile(filepath.Join(dir, PanicFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("fault: failed to open %s: %w", PanicFile, err)
	}
	rejections, err := os.OpenFile(filepath.Join(dir, RejectionFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		panics.Close()
		return nil, fmt.Errorf("fault: failed to open %s: %w", RejectionFile, err)
	}

	return &Capture{
		service:    service,
		chain:      format.NewJSONChain(service),
		logger:     logger,
		panics:     panics,
		rejections: rejections,
	}, nil
}

// A nil *Capture is a valid no-op recorder, so callers never need to
// branch on whether fault capture is enabled.

// RecordPanic durably appends an uncaught-panic record.
func (c *Capture) RecordPanic(v any, stack []byte) {
	if c == nil {
		return
	}
	c.record(c.panics, fmt.Sprintf("panic: %v", v), stack)
}

// RecordRejection durably appends a background-failure record. The
// stack of the reporting goroutine is captured here.
func (c *Capture) RecordRejection(err error) {
	if c == nil || err == nil {
		return
	}
	c.record(c.rejections, err.Error(), debug.Stack())
}

// Recover is meant as a deferred call at the top of a goroutine or
// request handler. It durably records a panic, then re-panics:
// whether the process survives stays the caller's decision.
func (c *Capture) Recover() {
	if r := recover(); r != nil {
		c.RecordPanic(r, debug.Stack())
		panic(r)
	}
}

// Go runs fn on a new goroutine. A returned error or a panic becomes
// a fault record; panics are not re-raised here since nothing above
// the goroutine could handle them.
func (c *Capture) Go(fn func() error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.RecordPanic(r, debug.Stack())
			}
		}()
		if err := fn(); err != nil {
			c.RecordRejection(err)
		}
	}()
}

// Close closes both fault artifacts.
func (c *Capture) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if err := c.panics.Close(); err != nil {
		firstErr = err
	}
	if err := c.rejections.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (c *Capture) record(f *os.File, msg string, stack []byte) {
	event := core.LogEvent{
		Time:    time.Now(),
		Level:   core.LevelError,
		Message: msg,
		Err: &core.ErrorDetail{
			Message: msg,
			Stack:   string(stack),
		},
	}
	line := c.chain.Format(event)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := f.Write(line); err != nil {
		c.logger.Error("msg", "Failed to append fault record",
			"component", "fault",
			"file", f.Name(),
			"error", err)
		return
	}
	if err := f.Sync(); err != nil {
		c.logger.Error("msg", "Failed to sync fault record",
			"component", "fault",
			"file", f.Name(),
			"error", err)
	}
}
