package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/campustix/campustix/internal/http/handlers"
	httpmw "github.com/campustix/campustix/internal/http/middleware"
	"github.com/campustix/campustix/internal/platform/gateway"
	"github.com/campustix/campustix/internal/repository"
	"github.com/campustix/campustix/internal/service"
	"github.com/campustix/campustix/pkg/auth"
	"github.com/campustix/campustix/pkg/config"
	"github.com/campustix/campustix/pkg/database"
	"github.com/campustix/campustix/pkg/events"
	"github.com/campustix/campustix/pkg/logger"
	mw "github.com/campustix/campustix/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	signer := auth.NewSigner(cfg.Auth.SessionSecret, cfg.Auth.TicketSecret, cfg.Auth.SessionTTL, cfg.Auth.TicketTTL)
	gw := gateway.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.BaseURL)

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	verifyRepo := repository.NewVerifyRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)

	// Services
	authService := service.NewAuthService(userRepo, verifyRepo, signer, eventBus, cfg.Auth.VerificationTTL)
	eventService := service.NewEventService(eventRepo, userRepo)
	registrationService := service.NewRegistrationService(regRepo, eventRepo)
	paymentService := service.NewPaymentService(paymentRepo, regRepo, eventRepo, userRepo, gw, signer, eventBus)
	entryService := service.NewEntryService(regRepo, userRepo, eventRepo, signer, eventBus)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService, registrationService, signer)
	paymentHandler := handlers.NewPaymentHandler(paymentService, signer)
	entryHandler := handlers.NewEntryHandler(entryService, signer)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, signer)

	limiter := httpmw.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.With(limiter.Limit("auth")).Mount("/auth", authHandler.Routes())
		r.Mount("/events", eventHandler.Routes())
		r.With(limiter.Limit("payments")).Mount("/payments", paymentHandler.Routes())
		r.Mount("/entry", entryHandler.Routes())
		r.Mount("/registrations", registrationHandler.Routes())
		r.Mount("/organizer", eventHandler.OrganizerRoutes())
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down api service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Api service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting api service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Api service error", "error", err)
		os.Exit(1)
	}
}
