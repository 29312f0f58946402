package controllers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondWithErrorLogsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := newResponder(slog.New(slog.NewJSONHandler(&buf, nil)), false)

	engine := gin.New()
	engine.POST("/auth/reset-password/:resetToken", func(ctx *gin.Context) {
		r.respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, errors.New("db down"))
	})

	const token = "4f2c9e1a7b3d4e5f8a9b0c1d2e3f4a5b"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/reset-password/"+token, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
	assert.Contains(t, buf.String(), `"route":"/auth/reset-password/:resetToken"`)
	assert.NotContains(t, buf.String(), token)
}
