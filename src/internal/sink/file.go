// FILE: logfan/src/internal/sink/file.go
package sink

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"logfan/src/internal/core"
	"logfan/src/internal/format"
	"logfan/src/internal/rotate"

	"github.com/lixenwraith/log"
)

// FileOptions configures a rotating file sink.
type FileOptions struct {
	Name       string
	Rotation   rotate.Config
	Chain      *format.Chain
	Admission  Admission
	BufferSize int

	// OnWriteError is called once per dropped event so the router can
	// surface a non-fatal warning on the console sink. May be nil.
	OnWriteError func(name string, err error)
}

// FileSink persists formatted events to a rotating artifact family.
// The rotation check runs inside the sink's own goroutine immediately
// before each write, so check-and-rotate is a single decision point.
type FileSink struct {
	name      string
	input     chan core.LogEvent
	writer    *rotate.Writer
	chain     *format.Chain
	admission Admission
	onError   func(name string, err error)
	done      chan struct{}
	drained   chan struct{}
	stopOnce  sync.Once
	startTime time.Time
	logger    *log.Logger

	totalWritten atomic.Uint64
	totalDropped atomic.Uint64
	lastWrite    atomic.Value // time.Time
}

// NewFileSink creates a file sink for one artifact family.
func NewFileSink(opts FileOptions, logger *log.Logger) (*FileSink, error) {
	writer, err := rotate.NewWriter(opts.Rotation, logger)
	if err != nil {
		return nil, err
	}

	bufferSize := opts.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	name := opts.Name
	if name == "" {
		name = opts.Rotation.Family
	}

	s := &FileSink{
		name:      name,
		input:     make(chan core.LogEvent, bufferSize),
		writer:    writer,
		chain:     opts.Chain,
		admission: opts.Admission,
		onError:   opts.OnWriteError,
		done:      make(chan struct{}),
		drained:   make(chan struct{}),
		startTime: time.Now(),
		logger:    logger,
	}
	s.lastWrite.Store(time.Time{})
	return s, nil
}

func (s *FileSink) Input() chan<- core.LogEvent {
	return s.input
}

func (s *FileSink) Admits(level core.Severity) bool {
	return s.admission.Admits(level)
}

func (s *FileSink) Start(ctx context.Context) error {
	go s.processLoop(ctx)
	s.logger.Info("msg", "File sink started",
		"component", "file_sink",
		"sink", s.name,
		"min_level", s.admission.Min.String(),
		"exclusive", s.admission.Exclusive)
	return nil
}

func (s *FileSink) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	<-s.drained
	s.logger.Info("msg", "File sink stopped", "sink", s.name)
}

func (s *FileSink) Stats() Stats {
	lastWrite, _ := s.lastWrite.Load().(time.Time)
	return Stats{
		Name:         s.name,
		TotalWritten: s.totalWritten.Load(),
		TotalDropped: s.totalDropped.Load(),
		StartTime:    s.startTime,
		LastWrite:    lastWrite,
	}
}

func (s *FileSink) processLoop(ctx context.Context) {
	defer close(s.drained)
	for {
		select {
		case event := <-s.input:
			s.write(event)
		case <-ctx.Done():
			s.shutdown()
			return
		case <-s.done:
			s.shutdown()
			return
		}
	}
}

// shutdown flushes buffered events, then closes the writer.
func (s *FileSink) shutdown() {
	for {
		select {
		case event := <-s.input:
			s.write(event)
		default:
			if err := s.writer.Close(); err != nil {
				s.logger.Error("msg", "Failed to close artifact",
					"component", "file_sink",
					"sink", s.name,
					"error", err)
			}
			return
		}
	}
}

func (s *FileSink) write(event core.LogEvent) {
	if !s.admission.Admits(event.Level) {
		return
	}
	if _, err := s.writer.Write(s.chain.Format(event)); err != nil {
		// Drop this single event for this sink only; the failure is
		// surfaced as a console warning, never to the producer.
		s.totalDropped.Add(1)
		s.logger.Error("msg", "File write failed, event dropped",
			"component", "file_sink",
			"sink", s.name,
			"error", err)
		if s.onError != nil {
			s.onError(s.name, err)
		}
		return
	}
	s.totalWritten.Add(1)
	s.lastWrite.Store(time.Now())
}
