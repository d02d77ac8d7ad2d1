package router

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/foodiehub/foodiehub-backend/config"
	"github.com/foodiehub/foodiehub-backend/internal/app/controller"
	"github.com/foodiehub/foodiehub-backend/internal/db"
	"github.com/foodiehub/foodiehub-backend/internal/metrics"
	"github.com/foodiehub/foodiehub-backend/internal/middleware"
	"github.com/foodiehub/foodiehub-backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Router struct {
	authController    *controller.AuthController
	profileController *controller.ProfileController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	productController *controller.ProductController
	authMiddleware    *middleware.AuthMiddleware
	sessions          *scs.SessionManager
	database          *gorm.DB
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	profileController *controller.ProfileController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	productController *controller.ProductController,
	authMiddleware *middleware.AuthMiddleware,
	sessions *scs.SessionManager,
	database *gorm.DB,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		profileController: profileController,
		cartController:    cartController,
		orderController:   orderController,
		productController: productController,
		authMiddleware:    authMiddleware,
		sessions:          sessions,
		database:          database,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if r.config.Storage.Driver != "s3" {
		router.Static(r.config.Storage.PublicPath, r.config.Storage.LocalDir)
	}

	router.POST("/register", r.authController.Register)
	router.POST("/login", r.authController.Login)

	router.GET("/products", r.productController.ListProducts)
	router.GET("/products/:id", r.productController.GetProduct)

	authed := router.Group("")
	authed.Use(r.authMiddleware.Authenticate())
	{
		authed.POST("/logout", r.authController.Logout)
		authed.GET("/me", r.authController.Me)

		profile := authed.Group("/profile")
		{
			profile.GET("", r.authController.Me)
			profile.PUT("", r.profileController.Update)
			profile.POST("/avatar", r.profileController.UpdateAvatar)
			profile.PUT("/password", r.profileController.ChangePassword)
			profile.POST("/password", r.profileController.ChangePassword)
		}

		cart := authed.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.PUT("/transport", r.cartController.SetTransport)
			cart.POST("/checkout", r.orderController.Checkout)
		}

		orders := authed.Group("/orders")
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/export", r.orderController.ExportOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}
	}

	return router
}

// Handler returns the engine wrapped with session loading. Use it, not
// Setup, when serving: handlers read the session from the request context.
func (r *Router) Handler() http.Handler {
	return r.sessions.LoadAndSave(r.Setup())
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}

	if err := db.Ping(r.database); err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	}
	if err := redis.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		checks["redis"] = err.Error()
	}

	c.JSON(status, gin.H{
		"ok":      status == http.StatusOK,
		"service": "foodiehub-api",
		"checks":  checks,
	})
}
