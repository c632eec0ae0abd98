package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/delivery-settlement-ledger/internal/api_gateway"
	"github.com/delivery-settlement-ledger/internal/api_gateway/service"
	"github.com/delivery-settlement-ledger/internal/config"
	"github.com/delivery-settlement-ledger/internal/data/mongo"
	"github.com/delivery-settlement-ledger/internal/data/postgres"
	"github.com/delivery-settlement-ledger/internal/logger"
	"github.com/delivery-settlement-ledger/internal/platform/messaging/producers"
	"github.com/delivery-settlement-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for settlement and assignment notifications
	notificationProducer, err := producers.NewNotificationProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize notification producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	entityRepo := postgres.NewEntityRepository(log, postgresDB)
	shipmentRepo := postgres.NewShipmentRepository(log, postgresDB)
	paymentRepo := postgres.NewPaymentRepository(log, postgresDB)
	statusRepo := postgres.NewStatusConfigRepository(log, postgresDB)
	reportRepo := mongo.NewReportRepository(log, mongoDB.Database())

	// Initialize services
	entityService := service.NewEntityService(entityRepo, log)
	reconciliationService := service.NewReconciliationService(entityRepo, shipmentRepo, reportRepo, log)
	ledgerService := service.NewLedgerService(postgresDB, entityRepo, shipmentRepo, paymentRepo, statusRepo, notificationProducer, log)
	shipmentService, err := service.NewShipmentService(shipmentRepo, entityRepo, statusRepo, notificationProducer, cfg.WorkerPool.Size, log)
	if err != nil {
		log.Error("Failed to initialize shipment service", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, api_gateway.Services{
		Entity:         entityService,
		Shipment:       shipmentService,
		Ledger:         ledgerService,
		Reconciliation: reconciliationService,
	})
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new work arrives
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Drain the bulk worker pool
	shipmentService.Close()

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = notificationProducer.Close(); err != nil {
		log.Error("Error closing notification producer", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
