package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

// RateLimit allows requests per window for each client IP. Rejected requests
// get 429 and are not passed on.
func RateLimit(requests int, window time.Duration, message string) gin.HandlerFunc {
	limiter := httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {}),
	)

	return func(ctx *gin.Context) {
		passed := false
		limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			ctx.Request = r
			ctx.Next()
		})).ServeHTTP(ctx.Writer, ctx.Request)

		if !passed {
			abortWithMessage(ctx, http.StatusTooManyRequests, message)
		}
	}
}
