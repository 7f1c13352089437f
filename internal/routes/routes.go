package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/config"
	"github.com/terraviva/backend/internal/handlers"
	"github.com/terraviva/backend/internal/middleware"
	"github.com/terraviva/backend/internal/queue"
	"github.com/terraviva/backend/internal/services/academy"
	"github.com/terraviva/backend/internal/services/catalog"
	"github.com/terraviva/backend/internal/services/commerce"
	"github.com/terraviva/backend/internal/services/locator"
	"github.com/terraviva/backend/internal/services/subscriptions"
	"github.com/terraviva/backend/internal/subscription"
)

// Services bundles the service layer the routes are wired against
type Services struct {
	Catalog       *catalog.Service
	Subscriptions *subscriptions.Service
	Academy       *academy.Service
	Locator       *locator.Service
	Commerce      *commerce.Client
	Engine        *subscription.Engine
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, q queue.QueueInterface, svc Services) {
	rateLimiter := middleware.NewRateLimiter(10, 5, 20, 5)

	authHandler := handlers.NewAuthHandler(db)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)
	cartHandler := handlers.NewCartHandler(svc.Commerce)
	subscriptionHandler := handlers.NewSubscriptionHandler(svc.Subscriptions)
	recommendationHandler := handlers.NewRecommendationHandler(svc.Engine)
	academyHandler := handlers.NewAcademyHandler(svc.Academy)
	storeHandler := handlers.NewStoreHandler(svc.Locator)
	orderHandler := handlers.NewOrderHandler(db)
	webhookHandler := handlers.NewWebhookHandler(q, cfg.Commerce.WebhookSecret)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(rateLimiter.RateLimiterMiddleware())

	// Auth
	auth := api.Group("/auth")
	auth.Use(rateLimiter.AuthRateLimiterMiddleware())
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}
	api.GET("/auth/me", middleware.AuthMiddleware(), authHandler.Me)

	// Public storefront
	{
		api.GET("/products", catalogHandler.ListProducts)
		api.GET("/products/:slug", catalogHandler.GetProduct)
		api.GET("/subscriptions/frequencies", subscriptionHandler.ListFrequencies)
		api.POST("/recommendations", recommendationHandler.Generate)
		api.POST("/recommendations/adjust", recommendationHandler.Adjust)
		api.GET("/stores", storeHandler.ListStores)
		api.GET("/stores/nearby", storeHandler.Nearby)
		api.GET("/academy/courses", academyHandler.ListCourses)
		api.GET("/academy/courses/:slug", academyHandler.GetCourse)
		api.POST("/cart", cartHandler.CreateCart)
		api.POST("/cart/:id/lines", cartHandler.AddCartLines)
		api.GET("/cart/:id/checkout-url", cartHandler.GetCheckoutURL)
	}

	// Authenticated account area
	account := api.Group("")
	account.Use(middleware.AuthMiddleware())
	{
		account.GET("/subscriptions", subscriptionHandler.List)
		account.POST("/subscriptions", subscriptionHandler.Create)
		account.GET("/subscriptions/:id", subscriptionHandler.Get)
		account.POST("/subscriptions/:id/pause", subscriptionHandler.Pause)
		account.POST("/subscriptions/:id/resume", subscriptionHandler.Resume)
		account.POST("/subscriptions/:id/cancel", subscriptionHandler.Cancel)
		account.PUT("/subscriptions/:id/frequency", subscriptionHandler.UpdateFrequency)
		account.GET("/subscriptions/:id/loyalty", subscriptionHandler.Loyalty)
		account.GET("/subscriptions/cancellation-reasons", subscriptionHandler.ListCancellationReasons)
		account.GET("/subscriptions/cancellation-offers/:reason", subscriptionHandler.RetentionOffer)
		account.GET("/orders", orderHandler.ListOrders)
		account.POST("/academy/lessons/:id/complete", academyHandler.CompleteLesson)
		account.GET("/academy/profile", academyHandler.Profile)
	}

	// Back office
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/products", catalogHandler.ListProducts)
		admin.POST("/products", catalogHandler.CreateProduct)
		admin.PUT("/products/:id", catalogHandler.UpdateProduct)
	}

	// Webhooks, authenticated by signature instead of JWT
	router.POST("/webhooks/commerce", webhookHandler.HandleCommerceEvent)
}
