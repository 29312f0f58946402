package controllers

import (
	"log/slog"

	"github.com/Kariqs/shopfront-api/middlewares"
	"github.com/gin-gonic/gin"
)

// Standard response messages
const (
	msgInvalidInput          = "invalid input"
	msgInternalServerError   = "Internal server error"
	msgUserAlreadyExists     = "Email is already registered"
	msgInvalidCredentials    = "Invalid email or password"
	msgUserNotFound          = "No account found with this email"
	msgResetLinkSent         = "If the email is registered, a password reset link has been sent"
	msgEmailNotSent          = "Could not send email, please try again later"
	msgInvalidResetToken     = "Invalid or expired reset token"
	msgPasswordResetSuccess  = "Password has been reset successfully"
	msgProfileUpdated        = "Profile updated"
	msgUserDeleted           = "User deleted"
	msgProductNotFound       = "Product not found"
	msgCategoryNotFound      = "Category not found"
	msgUploadsNotConfigured  = "Image uploads are not configured"
	msgCannotDeleteYourself  = "You cannot delete your own account"
	msgAuthenticationMissing = "Not authorized"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"success": false, "message": message})
}

// responder writes error envelopes. Error detail is only exposed in debug mode.
type responder struct {
	logger *slog.Logger
	debug  bool
}

func newResponder(logger *slog.Logger, debug bool) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger, debug: debug}
}

func (r responder) respondWithError(ctx *gin.Context, status int, message string, err error) {
	body := gin.H{"success": false, "message": message}
	if err != nil {
		_ = ctx.Error(err)
		if status >= 500 {
			r.logger.ErrorContext(ctx.Request.Context(), message,
				"error", err,
				"request_id", middlewares.RequestID(ctx),
				"route", middlewares.RoutePath(ctx),
			)
		}
		if r.debug {
			body["error"] = err.Error()
		}
	}
	sendJSONResponse(ctx, status, body)
}
