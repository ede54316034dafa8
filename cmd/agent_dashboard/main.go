package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/agent-dashboard/internal/api_gateway"
	"github.com/agent-dashboard/internal/api_gateway/service"
	"github.com/agent-dashboard/internal/config"
	"github.com/agent-dashboard/internal/data/sheets"
	"github.com/agent-dashboard/internal/logger"
	"github.com/agent-dashboard/internal/platform/messaging/producers"
	"github.com/agent-dashboard/internal/platform/sheetdb"
	sheetsclient "github.com/agent-dashboard/internal/platform/sheets"
	"github.com/agent-dashboard/internal/reconciliation"
	"github.com/agent-dashboard/internal/session"
	"github.com/agent-dashboard/internal/supervisor"
	"github.com/agent-dashboard/internal/transition"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("agent_dashboard")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Agent Dashboard",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Read source and write store
	sheetsClient := sheetsclient.NewClient(log, &cfg.Sheets)
	recordStore := sheetdb.NewClient(log, &cfg.SheetDB)

	// Initialize repositories
	accountRepo := sheets.NewAccountRepository(log, sheetsClient, cfg.Sheets.AccountsID)
	maintenanceRepo := sheets.NewMaintenanceRepository(log, sheetsClient, cfg.Sheets.MaintenanceID)
	paymentRepo := sheets.NewPaymentRepository(log, sheetsClient, cfg.Sheets.SecurityPaymentID)
	transactionRepo := sheets.NewTransactionRepository(log, sheetsClient, cfg.Sheets.DepositsID, cfg.Sheets.WithdrawalsID)

	// Transition events go to Kafka when enabled, to the log otherwise
	events, deadLetters, err := producers.NewPublishers(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize transition event publishers", "error", err)
		os.Exit(1)
	}

	loader := reconciliation.NewLoader(log, transactionRepo)
	coordinator := transition.NewCoordinator(recordStore, loader, events, deadLetters, log)
	sessions := session.NewStore(cfg.Session.TTL)

	sessionSupervisor, err := supervisor.NewSupervisor(&cfg.Supervisor, &cfg.WorkerPool, accountRepo, maintenanceRepo, sessions, log)
	if err != nil {
		log.Error("Failed to initialize session supervisor", "error", err)
		os.Exit(1)
	}

	// Initialize services
	accountService := service.NewAccountService(accountRepo, paymentRepo, sessions, sessionSupervisor, log)
	transactionService := service.NewTransactionService(loader, coordinator, sessions, log)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, sessions, accountService, transactionService)
	log.Info("REST server initialized")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionSupervisor.Start(appCtx)
	}()

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

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new transitions start
	if err = server.Stop(context.Background()); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Stop the supervisor loop and wait for queued checks
	cancelAppCtx()
	wg.Wait()
	sessionSupervisor.Shutdown()

	if closeErr := events.Close(); closeErr != nil {
		log.Error("Error closing transition event publisher", "error", closeErr)
		err = closeErr
	}
	if closeErr := deadLetters.Close(); closeErr != nil {
		log.Error("Error closing dead-letter publisher", "error", closeErr)
		err = closeErr
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
