// FILE: logfan/src/internal/middleware/middleware_test.go
package middleware

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// recordingLogger captures emitted lines per entry point.
type recordingLogger struct {
	mu    sync.Mutex
	http  []string
	warns []string
}

func (l *recordingLogger) Error(msg string, fields ...map[string]any) {}
func (l *recordingLogger) Warn(msg string, fields ...map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *recordingLogger) Info(msg string, fields ...map[string]any) {}
func (l *recordingLogger) HTTP(msg string, fields ...map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.http = append(l.http, msg)
}
func (l *recordingLogger) Debug(msg string, fields ...map[string]any) {}

func newRequestCtx(method, path string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	return ctx
}

func TestAccessLogEmitsOneLinePerRequest(t *testing.T) {
	logger := &recordingLogger{}
	handler := AccessLog(logger, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusCreated)
	})

	handler(newRequestCtx("POST", "/items"))

	require.Len(t, logger.http, 1)
	assert.Regexp(t, `^POST /items 201 - \d+ ms$`, logger.http[0])
}

func TestAccessLogRunsAfterHandler(t *testing.T) {
	logger := &recordingLogger{}
	order := []string{}
	handler := AccessLog(logger, func(ctx *fasthttp.RequestCtx) {
		order = append(order, "handler")
	})

	handler(newRequestCtx("GET", "/"))

	require.Len(t, logger.http, 1)
	assert.Equal(t, []string{"handler"}, order)
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	logger := &recordingLogger{}
	rl := NewRateLimiter(100, 5, time.Minute, logger)
	defer rl.Stop()

	served := 0
	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) {
		served++
	})

	for i := 0; i < 3; i++ {
		handler(newRequestCtx("GET", "/"))
	}

	assert.Equal(t, 3, served)
	assert.Empty(t, logger.warns)
	assert.Equal(t, 1, rl.ActiveClients())
}

func TestRateLimiterRejectsOverBudget(t *testing.T) {
	logger := &recordingLogger{}
	rl := NewRateLimiter(1, 2, time.Minute, logger)
	defer rl.Stop()

	served := 0
	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) {
		served++
	})

	var last *fasthttp.RequestCtx
	for i := 0; i < 5; i++ {
		last = newRequestCtx("GET", "/")
		handler(last)
	}

	assert.Equal(t, 2, served)
	assert.Len(t, logger.warns, 3)
	assert.Equal(t, fasthttp.StatusTooManyRequests, last.Response.StatusCode())
}

func TestRateLimiterTracksForwardedClients(t *testing.T) {
	logger := &recordingLogger{}
	rl := NewRateLimiter(100, 5, time.Minute, logger)
	defer rl.Stop()

	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) {})

	for _, client := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		ctx := newRequestCtx("GET", "/")
		ctx.Request.Header.Set("X-Forwarded-For", client)
		handler(ctx)
	}

	assert.Equal(t, 3, rl.ActiveClients())
}

func TestRateLimiterConcurrentRequestsAndCleanup(t *testing.T) {
	logger := &recordingLogger{}
	rl := NewRateLimiter(1000, 1000, time.Minute, logger)
	defer rl.Stop()

	handler := rl.Middleware(func(ctx *fasthttp.RequestCtx) {})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ctx := newRequestCtx("GET", "/")
				ctx.Request.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", n))
				handler(ctx)
			}
		}(i)
	}
	for i := 0; i < 20; i++ {
		rl.removeOldClients()
	}
	wg.Wait()

	assert.Empty(t, logger.warns)
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute, &recordingLogger{})
	rl.Stop()
	rl.Stop()
}
