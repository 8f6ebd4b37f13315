package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/accusim-bookkeeping/internal/server/handler"
	"github.com/accusim-bookkeeping/internal/server/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	stateHandler *handler.StateHandler,
	voucherHandler *handler.VoucherHandler,
	ledgerHandler *handler.LedgerHandler,
	profileHandler *handler.ProfileHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		v1.GET("/state", stateHandler.Get)

		// Voucher operations
		vouchers := v1.Group("/vouchers")
		{
			vouchers.POST("/analyze", voucherHandler.Analyze)
			vouchers.POST("", voucherHandler.Post)
			vouchers.GET("", voucherHandler.List)
		}

		// Chart of accounts
		ledgers := v1.Group("/ledgers")
		{
			ledgers.GET("", ledgerHandler.List)
			ledgers.PUT("/:id", ledgerHandler.Update)
		}

		// Business profile
		profile := v1.Group("/profile")
		{
			profile.GET("", profileHandler.Get)
			profile.PUT("", profileHandler.Update)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
