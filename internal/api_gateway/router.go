package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/delivery-settlement-ledger/internal/api_gateway/handler"
	"github.com/delivery-settlement-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	entityHandler *handler.EntityHandler,
	shipmentHandler *handler.ShipmentHandler,
	ledgerHandler *handler.LedgerHandler,
	reconciliationHandler *handler.ReconciliationHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Courier and company records, their ledgers and settlements
		entities := v1.Group("/entities")
		{
			entities.POST("", entityHandler.Create)
			entities.GET("/:id", entityHandler.GetByID)
			entities.GET("/:id/ledger", ledgerHandler.GetLedger)
			entities.POST("/:id/settlements", ledgerHandler.Settle)
		}

		// Shipment intake and status changes
		shipments := v1.Group("/shipments")
		{
			shipments.POST("", shipmentHandler.Create)
			shipments.POST("/bulk-transition", shipmentHandler.BulkTransition)
			shipments.GET("/:id", shipmentHandler.GetByID)
			shipments.POST("/:id/transition", shipmentHandler.Transition)
			shipments.POST("/:id/assign", shipmentHandler.Assign)
		}

		// Reconciliation runs and their persisted reports
		reconciliations := v1.Group("/reconciliations")
		{
			reconciliations.POST("", reconciliationHandler.Reconcile)
			reconciliations.POST("/import", reconciliationHandler.Import)
			reconciliations.GET("", reconciliationHandler.Reports)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
