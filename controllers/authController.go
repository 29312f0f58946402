package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kariqs/shopfront-api/middlewares"
	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	responder
	auth             *services.AuthService
	maskUnknownEmail bool
}

// NewAuthController builds the auth handlers. With maskUnknownEmail set,
// forgot-password answers unknown addresses like known ones.
func NewAuthController(auth *services.AuthService, maskUnknownEmail bool, logger *slog.Logger, debug bool) *AuthController {
	RegisterValidators()
	return &AuthController{
		responder:        newResponder(logger, debug),
		auth:             auth,
		maskUnknownEmail: maskUnknownEmail,
	}
}

// Register handles account creation
func (c *AuthController) Register(ctx *gin.Context) {
	var data models.RegisterData
	if !bindJSON(ctx, &data) {
		return
	}

	result, err := c.auth.Register(ctx.Request.Context(), data)
	if errors.Is(err, services.ErrEmailTaken) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	}
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	user := result.User.Public()
	user.Role = ""
	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    user,
	})
}

// Login handles user authentication
func (c *AuthController) Login(ctx *gin.Context) {
	var data models.LoginData
	if !bindJSON(ctx, &data) {
		return
	}

	result, err := c.auth.Login(ctx.Request.Context(), data.Email, data.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

// ForgotPassword emails a password reset link
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	type ForgotPasswordBody struct {
		Email string `json:"email" binding:"required,email"`
	}

	var body ForgotPasswordBody
	if !bindJSON(ctx, &body) {
		return
	}

	err := c.auth.ForgotPassword(ctx.Request.Context(), body.Email)
	switch {
	case err == nil, errors.Is(err, services.ErrUserNotFound) && c.maskUnknownEmail:
		sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": msgResetLinkSent})
	case errors.Is(err, services.ErrUserNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, services.ErrDispatchFailed):
		c.respondWithError(ctx, http.StatusInternalServerError, msgEmailNotSent, err)
	default:
		c.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
	}
}

// ResetPassword sets a new password using the emailed reset token
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	type ResetPasswordBody struct {
		Password string `json:"password" binding:"required,strongpassword"`
	}

	var body ResetPasswordBody
	if !bindJSON(ctx, &body) {
		return
	}

	err := c.auth.ResetPassword(ctx.Request.Context(), ctx.Param("resetToken"), body.Password)
	if errors.Is(err, services.ErrInvalidResetToken) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidResetToken)
		return
	}
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": msgPasswordResetSuccess})
}

// UpdateProfile changes the signed-in user's name or email
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	current, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgAuthenticationMissing)
		return
	}

	var data models.ProfileData
	if !bindJSON(ctx, &data) {
		return
	}

	user, err := c.auth.UpdateProfile(ctx.Request.Context(), current.ID, data)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	case errors.Is(err, services.ErrUserNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		return
	case err != nil:
		c.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": msgProfileUpdated,
		"user":    user,
	})
}
