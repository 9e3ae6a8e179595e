// FILE: logfan/src/internal/middleware/accesslog.go
package middleware

import (
	"fmt"
	"time"

	"logfan/src/internal/service"

	"github.com/valyala/fasthttp"
)

// AccessLog emits one http-level line per completed request, after the
// handler has run so the final status code and latency are known.
// Request bodies and header values never appear in the line.
func AccessLog(logger service.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		elapsed := time.Since(start)

		logger.HTTP(fmt.Sprintf("%s %s %d - %d ms",
			ctx.Method(),
			ctx.Path(),
			ctx.Response.StatusCode(),
			elapsed.Milliseconds()))
	}
}
