// FILE: logfan/src/internal/middleware/ratelimiter.go
package middleware

import (
	"sync"
	"sync/atomic"
	"time"

	"logfan/src/internal/service"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// RateLimiter provides per-client request rate limiting for the demo
// server. Rejections are logged at warn level so they reach the warn
// artifact family.
type RateLimiter struct {
	clients         sync.Map // map[string]*clientLimiter
	requestsPerSec  float64
	burstSize       int
	cleanupInterval time.Duration
	logger          service.Logger
	done            chan struct{}
	stopOnce        sync.Once
}

// lastSeen is atomic: request goroutines touch it while the cleanup
// goroutine reads it.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// NewRateLimiter creates a rate limiting middleware and starts its
// cleanup routine.
func NewRateLimiter(requestsPerSec float64, burstSize int, cleanupInterval time.Duration, logger service.Logger) *RateLimiter {
	rl := &RateLimiter{
		requestsPerSec:  requestsPerSec,
		burstSize:       burstSize,
		cleanupInterval: cleanupInterval,
		logger:          logger,
		done:            make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Middleware wraps a fasthttp handler with the per-client limit.
func (rl *RateLimiter) Middleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		clientIP := ctx.RemoteIP().String()
		if forwarded := ctx.Request.Header.Peek("X-Forwarded-For"); len(forwarded) > 0 {
			clientIP = string(forwarded)
		}

		if !rl.getLimiter(clientIP).Allow() {
			rl.logger.Warn("request rate limit exceeded",
				map[string]any{"client": clientIP})
			ctx.Error("Rate limit exceeded", fasthttp.StatusTooManyRequests)
			return
		}

		next(ctx)
	}
}

func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	val, ok := rl.clients.Load(clientIP)
	if !ok {
		val, _ = rl.clients.LoadOrStore(clientIP, &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.requestsPerSec), rl.burstSize),
		})
	}
	client := val.(*clientLimiter)
	client.lastSeen.Store(time.Now().UnixNano())
	return client.limiter
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.removeOldClients()
		}
	}
}

// removeOldClients drops limiters not seen for two cleanup intervals.
func (rl *RateLimiter) removeOldClients() {
	threshold := time.Now().Add(-rl.cleanupInterval * 2).UnixNano()

	rl.clients.Range(func(key, value any) bool {
		client := value.(*clientLimiter)
		if client.lastSeen.Load() < threshold {
			rl.clients.Delete(key)
		}
		return true
	})
}

// Stop shuts down the cleanup routine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// ActiveClients reports the number of tracked client limiters.
func (rl *RateLimiter) ActiveClients() int {
	count := 0
	rl.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
