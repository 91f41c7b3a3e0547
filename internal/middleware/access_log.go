package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// AccessLog logs one line per request after it completes.
func AccessLog(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			status := ctx.Response.StatusCode()
			fields := []zap.Field{
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.ByteString("request_id", ctx.Response.Header.Peek("X-Request-ID")),
			}
			switch {
			case status >= fasthttp.StatusInternalServerError:
				logger.Error("request failed", fields...)
			case status >= fasthttp.StatusBadRequest:
				logger.Warn("request rejected", fields...)
			default:
				logger.Debug("request served", fields...)
			}
		}
	}
}
