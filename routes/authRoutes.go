package routes

import (
	"github.com/Kariqs/shopfront-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(api *gin.RouterGroup, c *controllers.AuthController, g Guards) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", g.RegisterLimit, c.Register)
		auth.POST("/login", g.LoginLimit, c.Login)
		auth.POST("/forgot-password", g.ForgotLimit, c.ForgotPassword)
		auth.POST("/reset-password/:resetToken", c.ResetPassword)
		auth.PUT("/update-profile", g.Auth, c.UpdateProfile)
	}
}
