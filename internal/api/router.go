package api

import (
	"github.com/gin-gonic/gin"

	"mkulima/soko/internal/api/handlers"
	"mkulima/soko/internal/api/middleware"
	"mkulima/soko/internal/config"
	"mkulima/soko/internal/index"
	"mkulima/soko/internal/models"
	"mkulima/soko/internal/remote"
	"mkulima/soko/internal/render"
	"mkulima/soko/internal/session"
	"mkulima/soko/internal/storage"
	"mkulima/soko/internal/tradeflow"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(
	cfg *config.Config,
	client remote.IClient,
	idx *index.Index,
	sessions *session.Manager,
	flow *tradeflow.Flow,
	engine *render.Engine,
	images storage.IImageStorage,
) *gin.Engine {
	r := gin.Default()

	// Apply global middleware first (order matters)
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(rateLimiter.Limit())
	r.Use(middleware.SessionMiddleware(cfg))

	// Initialize handlers
	marketHandler := handlers.NewMarketHandler(cfg, engine, idx, sessions, flow, images)
	authHandler := handlers.NewAuthHandler(cfg, engine, client, sessions)
	adminHandler := handlers.NewAdminHandler(cfg, engine, client, idx, flow)

	// Public routes
	r.GET("/", marketHandler.GetMarket)
	r.GET("/market", marketHandler.GetMarket)
	r.GET("/trade/:id", marketHandler.GetTrade)
	r.POST("/offers", marketHandler.PostOffer)

	r.GET("/login", authHandler.GetLogin)
	r.POST("/login", authHandler.PostLogin)
	r.GET("/register", authHandler.GetRegister)
	r.POST("/register", authHandler.PostRegister)
	r.POST("/logout", authHandler.PostLogout)

	// Seller routes
	authRequired := r.Group("/")
	authRequired.Use(middleware.RequireUser())
	{
		authRequired.GET("/selling", marketHandler.GetSelling)
		authRequired.GET("/sell", marketHandler.GetSell)
		authRequired.POST("/sell", marketHandler.PostSell)
		authRequired.POST("/listings/:id/delete", marketHandler.PostDeleteListing)
		authRequired.POST("/offers/:id/accept", marketHandler.PostHandleOffer(models.OfferStatusAccepted))
		authRequired.POST("/offers/:id/decline", marketHandler.PostHandleOffer(models.OfferStatusRejected))
	}

	// Admin routes
	adminRequired := r.Group("/admin")
	adminRequired.Use(middleware.RequireAdmin())
	{
		adminRequired.GET("", adminHandler.GetDashboard)
		adminRequired.POST("/offers/:id/accept", adminHandler.PostOfferStatus(models.OfferStatusAccepted))
		adminRequired.POST("/offers/:id/reject", adminHandler.PostOfferStatus(models.OfferStatusRejected))
		adminRequired.POST("/products/:id/delete", adminHandler.PostDeleteProduct)
	}

	return r
}
