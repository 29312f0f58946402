package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger tags each request with an id and logs it once it finishes.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(requestIDKey, id)
		ctx.Header(RequestIDHeader, id)

		ctx.Next()

		status := ctx.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			"request_id", id,
			"method", ctx.Request.Method,
			"route", RoutePath(ctx),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", ctx.ClientIP(),
		}
		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "error", ctx.Errors.String())
		}
		logger.Log(ctx.Request.Context(), level, "request completed", attrs...)
	}
}

// RequestID returns the id RequestLogger assigned, or "".
func RequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
