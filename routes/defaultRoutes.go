package routes

import (
	"github.com/Kariqs/shopfront-api/controllers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func DefaultRoutes(server *gin.Engine, api *gin.RouterGroup, c *controllers.DefaultController) {
	server.GET("/", c.GetHome)
	server.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.GET("/health", c.Health)
}
