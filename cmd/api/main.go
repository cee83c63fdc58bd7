package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-api/internal/analytics"
	"checkout-api/internal/checkout"
	"checkout-api/internal/config"
	"checkout-api/internal/database"
	"checkout-api/internal/gateway"
	"checkout-api/internal/handler"
	"checkout-api/internal/repository"
	"checkout-api/internal/router"
	"checkout-api/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting checkout API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	configRepo := repository.NewConfigRepository(pool, logger)

	// Initialize payment gateway client and status trackers
	gatewayClient := gateway.NewClient(cfg.Gateway, configRepo, logger)
	trackerManager := tracker.NewManager(gatewayClient, orderRepo, cfg.Gateway.PollInterval, logger)
	defer trackerManager.Close()

	// Initialize analytics adapter
	analyticsTracker := analytics.New(cfg.Analytics, logger)

	// Initialize checkout orchestration
	navRouter := checkout.NewRouter(logger)
	checkoutService := checkout.NewService(orderRepo, configRepo, analyticsTracker, navRouter, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productRepo, logger)
	orderHandler := handler.NewOrderHandler(orderRepo, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, productRepo, logger)
	paymentHandler := handler.NewPaymentHandler(gatewayClient, orderRepo, trackerManager, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, checkoutHandler, paymentHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
