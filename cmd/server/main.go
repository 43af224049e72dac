package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"agripay/internal/app"
	"agripay/internal/config"
	"agripay/internal/handler"
	"agripay/internal/mpesa"
	internalRedis "agripay/internal/redis"
	"agripay/internal/repository/postgres"
	"agripay/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	attemptRepo := postgres.NewAttemptRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	// Initialize the M-Pesa gateway and poller.
	stkClient := mpesa.NewStkClient(cfg.Mpesa.InitiateURL, cfg.Mpesa.APIKey, cfg.Mpesa.Timeout)
	gateway := mpesa.NewGateway(stkClient)
	poller := mpesa.NewPoller(transactionRepo, mpesa.PollConfig{
		GraceDelay:  cfg.Poll.GraceDelay,
		Interval:    cfg.Poll.Interval,
		MaxAttempts: cfg.Poll.MaxAttempts,
	})

	// Initialize services.
	notificationService := service.NewNotificationService()
	receiptService := service.NewReceiptService(notificationService)
	reconciler := service.NewReconciler(orderRepo, notificationService)
	checkoutService := service.NewCheckoutService(
		attemptRepo, gateway, poller, reconciler,
		notificationService, receiptService, lockStore, cacheStore,
	)
	callbackService := service.NewCallbackService(transactionRepo)

	// Initialize handlers.
	paymentHandler := handler.NewPaymentHandler(checkoutService)
	callbackHandler := handler.NewCallbackHandler(callbackService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		PaymentHandler:  paymentHandler,
		CallbackHandler: callbackHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
