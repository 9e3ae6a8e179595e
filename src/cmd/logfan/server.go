// FILE: logfan/src/cmd/logfan/server.go
package main

import (
	"fmt"
	"sync"
	"time"

	"logfan/src/internal/config"
	"logfan/src/internal/middleware"
	"logfan/src/internal/service"

	"github.com/valyala/fasthttp"
)

// demoServer exposes a few routes that exercise every pipeline level,
// with the access log and rate limit middleware in front.
type demoServer struct {
	addr    string
	server  *fasthttp.Server
	limiter *middleware.RateLimiter
	events  service.Logger
	svc     *service.Service
	wg      sync.WaitGroup
}

func newDemoServer(cfg *config.Config, svc *service.Service) *demoServer {
	s := &demoServer{
		addr:   cfg.Server.Address,
		events: svc.Logger(),
		svc:    svc,
	}
	s.limiter = middleware.NewRateLimiter(
		cfg.Server.RequestsPerSec,
		cfg.Server.Burst,
		time.Minute,
		s.events)

	handler := middleware.AccessLog(s.events,
		s.limiter.Middleware(s.route))

	s.server = &fasthttp.Server{
		Handler:         handler,
		CloseOnShutdown: true,
	}
	return s
}

func (s *demoServer) Start() error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.svc.Faults().Recover()

		logger.Info("msg", "HTTP server starting",
			"component", "server",
			"address", s.addr)

		if err := s.server.ListenAndServe(s.addr); err != nil {
			logger.Error("msg", "HTTP server failed",
				"component", "server",
				"error", err)
		}
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)
	return nil
}

func (s *demoServer) Shutdown() {
	if err := s.server.Shutdown(); err != nil {
		logger.Error("msg", "Error shutting down HTTP server",
			"component", "server",
			"error", err)
	}
	s.limiter.Stop()
	s.wg.Wait()
}

func (s *demoServer) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/":
		s.events.Info("request served", map[string]any{
			"path": string(ctx.Path()),
		})
		fmt.Fprintf(ctx, "logfan up\n")

	case "/health":
		ctx.SetContentType("application/json")
		fmt.Fprintf(ctx, `{"status":"ok"}`)

	case "/work":
		s.events.Debug("work request accepted", map[string]any{
			"client": ctx.RemoteIP().String(),
		})
		s.svc.Faults().Go(func() error {
			return s.doWork()
		})
		ctx.SetStatusCode(fasthttp.StatusAccepted)

	case "/fail":
		s.events.Error("simulated failure requested")
		ctx.Error("simulated failure", fasthttp.StatusInternalServerError)

	case "/stats":
		stats := s.svc.Stats()
		ctx.SetContentType("application/json")
		fmt.Fprintf(ctx, `{"dispatched":%d,"below_floor":%d,"throttled":%d,"queue_drops":%d}`,
			stats.TotalDispatched, stats.TotalBelowFloor,
			stats.TotalThrottled, stats.TotalQueueDrops)

	default:
		s.events.Warn("unknown route", map[string]any{
			"path": string(ctx.Path()),
		})
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (s *demoServer) doWork() error {
	time.Sleep(10 * time.Millisecond)
	s.events.Debug("background work finished")
	return nil
}
