package middlewares

import (
	"net/http"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/gin-gonic/gin"
)

// Authorize lets the request through only if the current user's role may access res.
// It must run after RequireAuth.
func Authorize(res models.Resource) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			abortWithMessage(ctx, http.StatusUnauthorized, "User not found in context")
			return
		}

		if !models.Can(user.Role, res) {
			abortWithMessage(ctx, http.StatusForbidden, "You do not have permission to access this resource")
			return
		}

		ctx.Next()
	}
}
