package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	httpapi "costume-rental-backend/internal/api/http"
	"costume-rental-backend/internal/config"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository/postgres"
	"costume-rental-backend/internal/security"
	"costume-rental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.LoggerOptions())
	logger.Info("Starting Costume Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db, "postgres")

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.UserTokenTTL(), cfg.AdminTokenTTL())

	// Initialize Email Service
	emailSvc := newEmailService(cfg)

	// Initialize Services
	services := httpapi.Services{
		Auth:       service.NewAuthService(store.UserRepository, tokenManager),
		Catalog:    service.NewCatalogService(store.ProductRepository),
		Cart:       service.NewCartService(store.CartRepository, store.ProductRepository),
		Wishlist:   service.NewWishlistService(store.WishlistRepository, store.ProductRepository),
		Orders:     service.NewOrderService(store, store.OrderRepository),
		Settlement: service.NewSettlementService(store, decimal.NewFromFloat(cfg.Business.LateFeeMultiplier)),
		AdminAuth:  service.NewAdminAuthService(store, store.AdminRepository, tokenManager),
		AdminOrder: service.NewOrderAdminService(store, store.OrderRepository, store.RentalHistoryRepository, store.UserRepository, emailSvc),
		Products:   service.NewProductAdminService(store, store.ProductRepository),
		Customers:  service.NewCustomerAdminService(store, store.UserRepository, store.OrderRepository),
		Dashboard:  service.NewDashboardService(store.ReportRepository, cfg.Business.LowStockThreshold),
	}

	// Set up HTTP server
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      httpapi.NewRouter(services, tokenManager, cfg.CORS.AllowedOrigins),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}

// newEmailService falls back to a log-only sender when no SMTP host is configured.
func newEmailService(cfg *config.Config) service.EmailService {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP host not configured, e-mail will only be logged")
		return service.NewLogEmailService()
	}
	return service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
}
