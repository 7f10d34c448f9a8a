package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/luma-events/ticketing-backend/internal/adapter/gateway/stripe"
	"github.com/luma-events/ticketing-backend/internal/adapter/handler"
	"github.com/luma-events/ticketing-backend/internal/adapter/repository/postgres"
	"github.com/luma-events/ticketing-backend/internal/core/services"
	"github.com/luma-events/ticketing-backend/internal/platform/config"
	"github.com/luma-events/ticketing-backend/internal/platform/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully!")

	catalogRepo := postgres.NewCatalogRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	gateway := stripe.NewClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	fees := services.NewFeeCalculator(cfg.PlatformFeePercent)

	checkoutService := services.NewCheckoutService(catalogRepo, ledgerRepo, gateway, fees, cfg.Currency)
	webhookService := services.NewWebhookService(gateway, ledgerRepo, redisClient, cfg.WebhookDedupTTL)
	checkinService := services.NewCheckInService(ledgerRepo)

	paymentHandler := handler.NewPaymentHandler(checkoutService, webhookService)
	attendeeHandler := handler.NewAttendeeHandler(checkinService)

	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return handler.Authenticate(cfg.JWTSecret, next)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/payments/create-payment-intent/", auth(paymentHandler.CreatePaymentIntent))
	mux.HandleFunc("POST /api/payments/webhook/", paymentHandler.Webhook)

	mux.HandleFunc("POST /api/attendee/check-in/", auth(attendeeHandler.CheckIn))
	mux.HandleFunc("GET /api/events/{event_id}/attendees/", auth(attendeeHandler.EventAttendees))
	mux.HandleFunc("GET /api/user/tickets/", auth(attendeeHandler.UserTickets))
	mux.HandleFunc("GET /api/user/orders/", auth(paymentHandler.UserOrders))

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}

		w.Write([]byte(`{"status":"healthy"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
