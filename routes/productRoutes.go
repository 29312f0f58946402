package routes

import (
	"github.com/Kariqs/shopfront-api/controllers"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(api *gin.RouterGroup, c *controllers.ProductController) {
	products := api.Group("/products")
	{
		products.GET("", c.GetProducts)
		products.GET("/featured", c.GetFeaturedProducts)
		products.GET("/category/:slug", c.GetProductsByCategory)
		products.GET("/:id", c.GetProduct)
	}
}

func CategoryRoutes(api *gin.RouterGroup, c *controllers.CategoryController) {
	categories := api.Group("/categories")
	{
		categories.GET("", c.GetCategories)
		categories.GET("/:slug", c.GetCategory)
	}
}
