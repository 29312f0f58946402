package routes

import "github.com/gin-gonic/gin"

// Guards holds the middleware the route groups attach to individual endpoints.
type Guards struct {
	Auth          gin.HandlerFunc
	LoginLimit    gin.HandlerFunc
	RegisterLimit gin.HandlerFunc
	ForgotLimit   gin.HandlerFunc
}
