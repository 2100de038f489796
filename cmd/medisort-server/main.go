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

	authhandler "github.com/medisort/medisort-server/internal/auth/handler"
	"github.com/medisort/medisort-server/internal/auth/jwt"
	authrepo "github.com/medisort/medisort-server/internal/auth/repository"
	authservice "github.com/medisort/medisort-server/internal/auth/service"
	invevents "github.com/medisort/medisort-server/internal/inventory/events"
	invhandler "github.com/medisort/medisort-server/internal/inventory/handler"
	invrepo "github.com/medisort/medisort-server/internal/inventory/repository"
	invservice "github.com/medisort/medisort-server/internal/inventory/service"
	scanhandler "github.com/medisort/medisort-server/internal/labelscan/handler"
	"github.com/medisort/medisort-server/pkg/config"
	"github.com/medisort/medisort-server/pkg/database"
	"github.com/medisort/medisort-server/pkg/httputil"
	"github.com/medisort/medisort-server/pkg/logger"
	"github.com/medisort/medisort-server/pkg/messaging"
)

const serviceName = "medisort-server"

func main() {
	cfg, err := config.LoadWithValidation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Str("environment", cfg.Server.Environment).Msg("starting medisort server")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to ensure database schema")
	}
	cancel()

	// The broker is optional; without it alerts are simply not published
	var alertPublisher *invevents.AlertPublisher
	if cfg.RabbitMQ.Enabled() {
		rmq, err := messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer rmq.Close()

		publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		alertPublisher = invevents.NewAlertPublisher(publisher, log)
	} else {
		log.Info().Msg("rabbitmq not configured, alert publishing disabled")
	}

	tokens := jwt.NewManager(cfg.JWT)

	authSvc := authservice.NewAuthService(authrepo.NewUserRepository(db), tokens, log)
	invSvc := invservice.NewInventoryService(invrepo.NewMedicineRepository(db), alertPublisher, log)

	authH := authhandler.NewAuthHandler(authSvc, log)
	itemH := invhandler.NewItemHandler(invSvc, log)
	dashH := invhandler.NewDashboardHandler(invSvc)
	scanH := scanhandler.NewScanHandler(nil, log)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(db))

	r.Route("/api/v1", func(r chi.Router) {
		authH.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authhandler.RequireAuth(tokens))

			authH.RegisterProtectedRoutes(r)
			itemH.RegisterRoutes(r)
			dashH.RegisterRoutes(r)
			scanH.RegisterRoutes(r)
		})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
}

func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"service":  serviceName,
			"database": db.Health(r.Context()),
		}
		httputil.JSON(w, http.StatusOK, health)
	}
}
