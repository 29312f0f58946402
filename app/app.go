package app

import (
	"log/slog"
	"time"

	"github.com/Kariqs/shopfront-api/controllers"
	"github.com/Kariqs/shopfront-api/initializers"
	"github.com/Kariqs/shopfront-api/middlewares"
	"github.com/Kariqs/shopfront-api/routes"
	"github.com/Kariqs/shopfront-api/services"
	"github.com/Kariqs/shopfront-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators built at startup. Cache and Uploader are optional.
type Deps struct {
	Config   *initializers.Config
	DB       *gorm.DB
	Logger   *slog.Logger
	Mailer   utils.Mailer
	Cache    utils.Cache
	Uploader utils.ImageUploader
	Now      func() time.Time
}

type App struct {
	Engine     *gin.Engine
	Auth       *services.AuthService
	Products   *services.ProductService
	Categories *services.CategoryService
	Users      *services.UserService
	Importer   *services.ProductImporter
}

func New(d Deps) *App {
	cfg := d.Config
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Mailer == nil {
		d.Mailer = &utils.LogMailer{Logger: d.Logger}
	}

	sessions := services.NewSessionIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, d.Now)
	categories := services.NewCategoryService(d.DB, d.Cache, cfg.CategoryCacheTTL, d.Logger)
	a := &App{
		Products:   services.NewProductService(d.DB),
		Categories: categories,
		Users:      services.NewUserService(d.DB),
		Importer:   services.NewProductImporter(d.DB, categories),
		Auth: services.NewAuthService(services.AuthServiceConfig{
			DB:          d.DB,
			Tokens:      services.NewResetTokenManager(d.DB, cfg.ResetTokenTTL, d.Now),
			Sessions:    sessions,
			Mailer:      d.Mailer,
			FrontendURL: cfg.FrontendURL,
			Logger:      d.Logger,
			Now:         d.Now,
		}),
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(middlewares.RequestLogger(d.Logger))
	server.Use(middlewares.Metrics())
	server.Use(cors.New(corsConfig(cfg)))

	debug := cfg.IsDevelopment()
	guards := routes.Guards{
		Auth:          middlewares.RequireAuth(sessions, a.Users),
		LoginLimit:    rateLimit(cfg.RateLimit.Login, "Too many login attempts from this IP, please try again later"),
		RegisterLimit: rateLimit(cfg.RateLimit.Register, "Too many accounts created from this IP, please try again later"),
		ForgotLimit:   rateLimit(cfg.RateLimit.ForgotPassword, "Too many password reset requests, please try again in an hour"),
	}

	api := server.Group(cfg.APIPrefix, rateLimit(cfg.RateLimit.General, "Too many requests, please try again later"))

	productController := controllers.NewProductController(a.Products, a.Importer, d.Uploader, d.Logger, debug)
	userController := controllers.NewUserController(a.Users, d.Logger, debug)

	routes.DefaultRoutes(server, api, controllers.NewDefaultController(cfg.APIPrefix))
	routes.AuthRoutes(api, controllers.NewAuthController(a.Auth, cfg.MaskUnknownEmail, d.Logger, debug), guards)
	routes.ProductRoutes(api, productController)
	routes.CategoryRoutes(api, controllers.NewCategoryController(a.Categories, d.Logger, debug))
	routes.UserRoutes(api, userController, guards)
	routes.AdminRoutes(api, userController, productController, guards)

	a.Engine = server
	return a
}

func corsConfig(cfg *initializers.Config) cors.Config {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{cfg.FrontendURL}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func rateLimit(rule initializers.RateRule, message string) gin.HandlerFunc {
	if rule.Requests <= 0 || rule.Window <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return middlewares.RateLimit(rule.Requests, rule.Window, message)
}
