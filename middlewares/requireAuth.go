package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/services"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

type SessionParser interface {
	Parse(token string) (*services.SessionClaims, error)
}

type UserLoader interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

func abortWithMessage(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// RequireAuth accepts a bearer session token and loads the active user it names.
func RequireAuth(sessions SessionParser, users UserLoader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			abortWithMessage(ctx, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithMessage(ctx, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := sessions.Parse(parts[1])
		if err != nil {
			abortWithMessage(ctx, http.StatusUnauthorized, "Not authorized, invalid token")
			return
		}

		user, err := users.Get(ctx.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			abortWithMessage(ctx, http.StatusUnauthorized, "Not authorized, user not found")
			return
		}

		ctx.Set(userKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user RequireAuth stored on the context.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
