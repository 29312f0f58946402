package routes

import (
	"github.com/Kariqs/shopfront-api/controllers"
	"github.com/Kariqs/shopfront-api/middlewares"
	"github.com/Kariqs/shopfront-api/models"
	"github.com/gin-gonic/gin"
)

func UserRoutes(api *gin.RouterGroup, c *controllers.UserController, g Guards) {
	api.GET("/users/profile", g.Auth, middlewares.Authorize(models.ResourceProfile), c.GetProfile)
}

func AdminRoutes(api *gin.RouterGroup, users *controllers.UserController, products *controllers.ProductController, g Guards) {
	admin := api.Group("/admin", g.Auth)
	{
		canManageUsers := middlewares.Authorize(models.ResourceUsers)
		admin.GET("/users", canManageUsers, users.GetUsers)
		admin.DELETE("/users/:id", canManageUsers, users.DeleteUser)

		canManageCatalog := middlewares.Authorize(models.ResourceCatalog)
		admin.POST("/products/import", canManageCatalog, products.ImportProducts)
		admin.POST("/products/:id/images", canManageCatalog, products.UploadProductImages)
	}
}
