package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Kariqs/shopfront-api/services"
	"github.com/Kariqs/shopfront-api/utils"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	responder
	products *services.ProductService
	importer *services.ProductImporter
	uploader utils.ImageUploader
}

// NewProductController builds the catalog handlers. A nil uploader disables image uploads.
func NewProductController(products *services.ProductService, importer *services.ProductImporter, uploader utils.ImageUploader, logger *slog.Logger, debug bool) *ProductController {
	return &ProductController{
		responder: newResponder(logger, debug),
		products:  products,
		importer:  importer,
		uploader:  uploader,
	}
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (c *ProductController) GetProducts(ctx *gin.Context) {
	query := services.ParseProductQuery(ctx.Request.URL.Query())

	page, err := c.products.List(ctx.Request.Context(), query)
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":    true,
		"data":       page.Products,
		"pagination": page.Pagination,
	})
}

func (c *ProductController) GetFeaturedProducts(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil {
		limit = services.DefaultFeaturedLimit
	}

	products, err := c.products.Featured(ctx.Request.Context(), limit)
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch featured products", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": products})
}

func (c *ProductController) GetProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	}

	product, err := c.products.Get(ctx.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	}
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": product})
}

func (c *ProductController) GetProductsByCategory(ctx *gin.Context) {
	query := services.ParseProductQuery(ctx.Request.URL.Query())

	category, page, err := c.products.ListByCategory(ctx.Request.Context(), ctx.Param("slug"), query)
	if errors.Is(err, services.ErrCategoryNotFound) {
		sendErrorResponse(ctx, http.StatusNotFound, msgCategoryNotFound)
		return
	}
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success":    true,
		"data":       page.Products,
		"category":   category.Ref(),
		"pagination": page.Pagination,
	})
}

// UploadProductImages stores the multipart "images" files and attaches them to the product.
func (c *ProductController) UploadProductImages(ctx *gin.Context) {
	if c.uploader == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, msgUploadsNotConfigured)
		return
	}

	productID, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		c.respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "No files uploaded")
		return
	}

	if _, err := c.products.Get(ctx.Request.Context(), productID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		} else {
			c.respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	uploadedURLs := []string{}
	var failedUploads []string

	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			c.logger.WarnContext(ctx.Request.Context(), "could not open upload", "file", file.Filename, "error", err)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		url, err := c.uploader.Upload(ctx.Request.Context(), utils.ProductImageKey(productID, file.Filename), f, file.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			c.logger.ErrorContext(ctx.Request.Context(), "image upload failed", "file", file.Filename, "error", err)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		if _, err := c.products.AddImage(ctx.Request.Context(), productID, url); err != nil {
			c.logger.ErrorContext(ctx.Request.Context(), "could not save product image", "url", url, "error", err)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}
		uploadedURLs = append(uploadedURLs, url)
	}

	response := gin.H{
		"success": len(uploadedURLs) > 0,
		"message": "Files processed",
		"urls":    uploadedURLs,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	status := http.StatusOK
	if len(uploadedURLs) == 0 {
		status = http.StatusBadGateway
	}
	sendJSONResponse(ctx, status, response)
}

// ImportProducts loads products from an uploaded xlsx "file".
func (c *ProductController) ImportProducts(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No file uploaded")
		return
	}

	f, err := header.Open()
	if err != nil {
		c.respondWithError(ctx, http.StatusBadRequest, "Could not read uploaded file", err)
		return
	}
	defer f.Close()

	result, err := c.importer.Import(ctx.Request.Context(), f)
	if errors.Is(err, services.ErrInvalidInput) {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		c.respondWithError(ctx, http.StatusInternalServerError, "Import failed", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "data": result})
}
