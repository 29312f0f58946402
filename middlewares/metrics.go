package middlewares

import (
	"strconv"
	"time"

	"github.com/Kariqs/shopfront-api/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.URL.Path == "/metrics" {
			ctx.Next()
			return
		}

		start := time.Now()
		ctx.Next()

		path := RoutePath(ctx)
		method := ctx.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(ctx.Writer.Status())).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RoutePath is the matched route template, e.g. "/products/:id", or
// "unmatched". Raw paths can carry credentials such as reset tokens.
func RoutePath(ctx *gin.Context) string {
	if path := ctx.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}
