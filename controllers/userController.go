package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kariqs/shopfront-api/middlewares"
	"github.com/Kariqs/shopfront-api/services"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	responder
	users *services.UserService
}

func NewUserController(users *services.UserService, logger *slog.Logger, debug bool) *UserController {
	return &UserController{responder: newResponder(logger, debug), users: users}
}

// GetProfile returns the signed-in user
func (c *UserController) GetProfile(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgAuthenticationMissing)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "user": user})
}

func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.users.List(ctx.Request.Context())
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": users})
}

func (c *UserController) DeleteUser(ctx *gin.Context) {
	actor, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgAuthenticationMissing)
		return
	}

	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		return
	}

	err := c.users.Delete(ctx.Request.Context(), actor.ID, id)
	switch {
	case errors.Is(err, services.ErrSelfDelete):
		sendErrorResponse(ctx, http.StatusBadRequest, msgCannotDeleteYourself)
	case errors.Is(err, services.ErrUserNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
	case err != nil:
		c.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
	default:
		sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": msgUserDeleted})
	}
}
