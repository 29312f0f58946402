package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type DefaultController struct {
	prefix string
	now    func() time.Time
}

func NewDefaultController(prefix string) *DefaultController {
	return &DefaultController{prefix: prefix, now: time.Now}
}

func (c *DefaultController) GetHome(ctx *gin.Context) {
	p := c.prefix
	message := fmt.Sprintf(`Welcome to the Shopfront API. The following are the endpoints for this API:

AUTH
- POST "%[1]s/auth/register" - Create user account
- POST "%[1]s/auth/login" - Access user account
- POST "%[1]s/auth/forgot-password" - Request password reset
- POST "%[1]s/auth/reset-password/:resetToken" - Reset user password
- PUT "%[1]s/auth/update-profile" - Update name or email

PRODUCTS
- GET "%[1]s/products" - List products (page, limit, category, minPrice, maxPrice, search, sort)
- GET "%[1]s/products/featured" - Featured products
- GET "%[1]s/products/category/:slug" - Products in a category
- GET "%[1]s/products/:id" - Get product by ID

CATEGORIES
- GET "%[1]s/categories" - List categories with product counts
- GET "%[1]s/categories/:slug" - Get category by slug

USERS
- GET "%[1]s/users/profile" - Current user

ADMIN
- GET "%[1]s/admin/users" - List users
- DELETE "%[1]s/admin/users/:id" - Delete user
- POST "%[1]s/admin/products/import" - Import products from xlsx
- POST "%[1]s/admin/products/:id/images" - Upload product images`, p)

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func (c *DefaultController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": c.now().UTC().Format(time.RFC3339),
	})
}
