package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/stocklane/stocklane-backend/internal/ledger/events"
	"github.com/stocklane/stocklane-backend/internal/ledger/handler"
	"github.com/stocklane/stocklane-backend/internal/ledger/repository"
	"github.com/stocklane/stocklane-backend/internal/ledger/service"
	"github.com/stocklane/stocklane-backend/pkg/config"
	"github.com/stocklane/stocklane-backend/pkg/database"
	"github.com/stocklane/stocklane-backend/pkg/httputil"
	"github.com/stocklane/stocklane-backend/pkg/logger"
	"github.com/stocklane/stocklane-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("ledger-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("ledger-service", cfg.Server.Environment)
	log.Info().Msg("starting Ledger Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewLedgerEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	receiptRepo := repository.NewReceiptRepository(db)
	outgoingRepo := repository.NewOutgoingRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize service
	ledgerService := service.NewLedgerService(receiptRepo, outgoingRepo, documentRepo, publisher, &cfg.Ledger, log)

	// Initialize handlers
	batchHandler := handler.NewBatchHandler(ledgerService, log)
	issueHandler := handler.NewIssueHandler(ledgerService, log)
	documentHandler := handler.NewDocumentHandler(ledgerService, log)
	dashboardHandler := handler.NewDashboardHandler(ledgerService, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the anomaly scanner
	scanner := service.NewAnomalyScanner(ledgerService, cfg.Ledger.ScanInterval, log)
	scanner.Start(ctx)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "ledger-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/ledger", func(r chi.Router) {
		r.Route("/batches", func(r chi.Router) {
			r.Get("/", batchHandler.List)
			r.Get("/{barcode}", batchHandler.ListByBarcode)
			r.Get("/{barcode}/movements", batchHandler.Movements)
		})

		r.Post("/allocations", issueHandler.Allocate)
		r.Post("/issues", issueHandler.Issue)
		r.Post("/receipts", issueHandler.Receive)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/next", documentHandler.Next)
			r.Get("/peek", documentHandler.Peek)
		})

		r.Get("/dashboard/stats", dashboardHandler.GetStats)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop the scanner
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
