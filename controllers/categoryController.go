package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kariqs/shopfront-api/services"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	responder
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService, logger *slog.Logger, debug bool) *CategoryController {
	return &CategoryController{responder: newResponder(logger, debug), categories: categories}
}

func (c *CategoryController) GetCategories(ctx *gin.Context) {
	categories, err := c.categories.List(ctx.Request.Context())
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch categories", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": categories})
}

func (c *CategoryController) GetCategory(ctx *gin.Context) {
	category, err := c.categories.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if errors.Is(err, services.ErrCategoryNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgCategoryNotFound)
		return
	}
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch category", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": category})
}
