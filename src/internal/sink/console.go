// FILE: logfan/src/internal/sink/console.go
package sink

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"logfan/src/internal/core"
	"logfan/src/internal/format"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// ConsoleOptions configures a console sink.
type ConsoleOptions struct {
	// Out defaults to os.Stdout
	Out io.Writer

	// Silent discards all output. This is the explicit replacement for
	// muting the console at runtime: the variant is selected once at
	// construction, shared console state is never mutated.
	Silent bool

	Chain      *format.Chain
	Admission  Admission
	BufferSize int
}

// ConsoleSink writes formatted events to an interactive console. It
// never rotates.
type ConsoleSink struct {
	input     chan core.LogEvent
	out       io.Writer
	chain     *format.Chain
	admission Admission
	done      chan struct{}
	drained   chan struct{}
	stopOnce  sync.Once
	startTime time.Time
	logger    *log.Logger

	totalWritten atomic.Uint64
	totalDropped atomic.Uint64
	lastWrite    atomic.Value // time.Time
}

// NewConsoleSink creates a console sink.
func NewConsoleSink(opts ConsoleOptions, logger *log.Logger) *ConsoleSink {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Silent {
		out = io.Discard
	}

	bufferSize := opts.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	s := &ConsoleSink{
		input:     make(chan core.LogEvent, bufferSize),
		out:       out,
		chain:     opts.Chain,
		admission: opts.Admission,
		done:      make(chan struct{}),
		drained:   make(chan struct{}),
		startTime: time.Now(),
		logger:    logger,
	}
	s.lastWrite.Store(time.Time{})
	return s
}

// Interactive reports whether the file is attached to a terminal,
// which decides console colorization.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (s *ConsoleSink) Input() chan<- core.LogEvent {
	return s.input
}

func (s *ConsoleSink) Admits(level core.Severity) bool {
	return s.admission.Admits(level)
}

func (s *ConsoleSink) Start(ctx context.Context) error {
	go s.processLoop(ctx)
	s.logger.Info("msg", "Console sink started",
		"component", "console_sink",
		"min_level", s.admission.Min.String())
	return nil
}

func (s *ConsoleSink) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	<-s.drained
	s.logger.Info("msg", "Console sink stopped")
}

func (s *ConsoleSink) Stats() Stats {
	lastWrite, _ := s.lastWrite.Load().(time.Time)
	return Stats{
		Name:         "console",
		TotalWritten: s.totalWritten.Load(),
		TotalDropped: s.totalDropped.Load(),
		StartTime:    s.startTime,
		LastWrite:    lastWrite,
	}
}

func (s *ConsoleSink) processLoop(ctx context.Context) {
	defer close(s.drained)
	for {
		select {
		case event := <-s.input:
			s.write(event)
		case <-ctx.Done():
			s.drain()
			return
		case <-s.done:
			s.drain()
			return
		}
	}
}

// drain flushes events still buffered at shutdown.
func (s *ConsoleSink) drain() {
	for {
		select {
		case event := <-s.input:
			s.write(event)
		default:
			return
		}
	}
}

func (s *ConsoleSink) write(event core.LogEvent) {
	if !s.admission.Admits(event.Level) {
		return
	}
	if _, err := s.out.Write(s.chain.Format(event)); err != nil {
		// The console is also the failure-report destination, so a
		// console write failure only reaches the diagnostic log.
		s.totalDropped.Add(1)
		s.logger.Error("msg", "Console write failed",
			"component", "console_sink",
			"error", err)
		return
	}
	s.totalWritten.Add(1)
	s.lastWrite.Store(time.Now())
}
