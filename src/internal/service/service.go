// FILE: logfan/src/internal/service/service.go
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"logfan/src/internal/config"
	"logfan/src/internal/core"
	"logfan/src/internal/fault"
	"logfan/src/internal/format"
	"logfan/src/internal/rotate"
	"logfan/src/internal/sink"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Service owns the assembled pipeline: one console sink, the
// configured file sinks, the router in front of them, and the fault
// capture writers.
type Service struct {
	cfg    *config.Config
	router *Router
	sinks  []sink.Sink
	faults *fault.Capture
	logger *log.Logger

	cancel context.CancelFunc
}

// New assembles the full pipeline from configuration. Nothing starts
// processing until Start is called.
func New(cfg *config.Config, logger *log.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc := &Service{
		cfg:    cfg,
		logger: logger,
	}

	console := buildConsoleSink(cfg, logger)
	svc.sinks = append(svc.sinks, console)

	floor := DevelopmentFloor
	if cfg.Production() {
		floor = ProductionFloor
	}

	var guard *rate.Limiter
	if cfg.FloodGuard.Enabled {
		guard = rate.NewLimiter(rate.Limit(cfg.FloodGuard.EventsPerSecond), cfg.FloodGuard.Burst)
	}

	svc.router = newRouter(cfg.Service, floor, console, guard, logger)

	for _, fc := range cfg.Files {
		fs, err := buildFileSink(cfg, fc, svc.router, logger)
		if err != nil {
			return nil, fmt.Errorf("file sink %q: %w", fc.Family, err)
		}
		svc.sinks = append(svc.sinks, fs)
		svc.router.addSink(fs)
	}

	if cfg.Fault.Enabled {
		dir := cfg.Fault.Directory
		if dir == "" {
			dir = cfg.Directory
		}
		capture, err := fault.New(dir, cfg.Service, logger)
		if err != nil {
			return nil, fmt.Errorf("fault capture: %w", err)
		}
		svc.faults = capture
	}

	return svc, nil
}

// Logger returns the event-producing facade backed by this service.
func (s *Service) Logger() Logger {
	return s.router
}

// Faults returns the fault capture, or nil when disabled.
func (s *Service) Faults() *fault.Capture {
	return s.faults
}

// Start launches every sink's processing goroutine.
func (s *Service) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, sn := range s.sinks {
		if err := sn.Start(ctx); err != nil {
			return fmt.Errorf("start sink %q: %w", sn.Stats().Name, err)
		}
	}
	s.logger.Info("msg", "Logging pipeline started",
		"component", "service",
		"service", s.cfg.Service,
		"sinks", len(s.sinks))
	return nil
}

// Shutdown drains and stops every sink. File sinks stop before the
// console so a final write failure can still surface on screen, then
// the console drains last and the fault files close.
func (s *Service) Shutdown() {
	for i := len(s.sinks) - 1; i >= 1; i-- {
		s.sinks[i].Stop()
	}
	if len(s.sinks) > 0 {
		s.sinks[0].Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.faults != nil {
		if err := s.faults.Close(); err != nil {
			s.logger.Warn("msg", "Failed to close fault capture",
				"component", "service",
				"error", err.Error())
		}
	}
	s.logger.Info("msg", "Logging pipeline stopped",
		"component", "service")
}

// Stats snapshots the router and per-sink counters.
func (s *Service) Stats() RouterStats {
	return s.router.Stats()
}

func buildConsoleSink(cfg *config.Config, logger *log.Logger) *sink.ConsoleSink {
	var chain *format.Chain
	if cfg.Production() {
		chain = format.NewJSONChain(cfg.Service)
	} else {
		chain = format.NewConsoleChain(consoleColor(cfg.Console.Color))
	}
	return sink.NewConsoleSink(sink.ConsoleOptions{
		Out:        os.Stdout,
		Silent:     cfg.Console.Silent,
		Chain:      chain,
		Admission:  sink.Admission{Min: core.LevelDebug},
		BufferSize: cfg.Console.BufferSize,
	}, logger)
}

func buildFileSink(cfg *config.Config, fc config.FileConfig, r *Router, logger *log.Logger) (*sink.FileSink, error) {
	level, err := core.ParseSeverity(fc.Level)
	if err != nil {
		return nil, err
	}
	return sink.NewFileSink(sink.FileOptions{
		Name: fc.Family,
		Rotation: rotate.Config{
			Directory:  cfg.Directory,
			Family:     fc.Family,
			MaxBytes:   int64(fc.MaxSizeMB) * 1024 * 1024,
			MaxAgeDays: fc.MaxAgeDays,
			Compress:   fc.Compress,
		},
		Chain:      format.NewJSONChain(cfg.Service),
		Admission:  sink.Admission{Min: level, Exclusive: fc.Exclusive},
		BufferSize: fc.BufferSize,
		OnWriteError: func(name string, err error) {
			r.reportWriteFailure(name, err)
		},
	}, logger)
}

func consoleColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return sink.Interactive(os.Stdout)
	}
}

// EnsureDirectory creates the log directory tree up front so startup
// fails loudly instead of on the first rotated write.
func EnsureDirectory(cfg *config.Config) error {
	dirs := []string{cfg.Directory}
	if cfg.Fault.Enabled && cfg.Fault.Directory != "" {
		dirs = append(dirs, cfg.Fault.Directory)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Clean(d), 0755); err != nil {
			return fmt.Errorf("create log directory %q: %w", d, err)
		}
	}
	return nil
}
