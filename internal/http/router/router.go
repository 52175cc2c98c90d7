package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/escrow-backend/internal/config"
	"github.com/ignatzorin/escrow-backend/internal/http/handlers"
	"github.com/ignatzorin/escrow-backend/internal/http/middleware"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	profileHandler *handlers.ProfileHandler,
	listingHandler *handlers.ListingHandler,
	escrowHandler *handlers.EscrowHandler,
	disputeHandler *handlers.DisputeHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	api.GET("/ws", wsHandler.Connect)

	auth := middleware.AuthMiddleware(tokenManager)
	mutationRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	users := api.Group("/users")
	users.Use(auth)
	{
		users.POST("/register", mutationRateLimit, profileHandler.Register)
		users.POST("/premium", profileHandler.UpgradeToPremium)
		users.POST("/deposit", mutationRateLimit, profileHandler.Deposit)
		users.GET("/balance", profileHandler.GetBalance)
		users.GET("/transactions", profileHandler.ListTransactions)
		users.GET("/:ownerID", profileHandler.GetProfile)
	}

	listings := api.Group("/listings")
	listings.Use(auth)
	{
		listings.POST("", mutationRateLimit, listingHandler.Create)
		listings.GET("/:freelancerID", listingHandler.ListByFreelancer)
		listings.GET("/:freelancerID/:listingID", listingHandler.Get)
		listings.PATCH("/:freelancerID/:listingID", listingHandler.Update)
	}

	escrows := api.Group("/escrows")
	escrows.Use(auth)
	{
		escrows.POST("", mutationRateLimit, escrowHandler.Create)
		escrows.GET("/:escrowID", escrowHandler.Get)
		escrows.GET("/:escrowID/vault", escrowHandler.GetVault)
		escrows.POST("/:escrowID/approve", escrowHandler.Approve)
		escrows.POST("/:escrowID/dispute", mutationRateLimit, disputeHandler.Open)
		escrows.GET("/:escrowID/dispute", disputeHandler.GetForEscrow)
	}

	disputes := api.Group("/disputes")
	disputes.Use(auth)
	{
		disputes.GET("", disputeHandler.ListMine)
		disputes.GET("/:disputeID", disputeHandler.Get)
		disputes.POST("/:disputeID/resolve", disputeHandler.Resolve)
	}

	return r
}
