package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/mehmetcc/shelfguard/internal/book"
	"github.com/mehmetcc/shelfguard/internal/config"
	"github.com/mehmetcc/shelfguard/internal/database"
	"github.com/mehmetcc/shelfguard/internal/gateway"
	"github.com/mehmetcc/shelfguard/internal/secret"
	"github.com/mehmetcc/shelfguard/internal/token"
	"go.uber.org/zap"
	"moul.io/chizap"
)

func main() {
	// init logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// load database
	db, err := database.Init(cfg.DbConfig)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// run migrations
	database.SetMigrationLogger(logger)
	err = database.Migrate(context.Background(), db)
	if err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// secret resolution: inline env value wins, otherwise remote parameter store
	var store secret.SecretStore
	if cfg.SecretConfig.StoreURL != "" {
		store = secret.NewHTTPStore(cfg.SecretConfig.StoreURL, cfg.SecretConfig.FetchTimeout, logger)
	}
	secrets := secret.NewProvider(cfg.SecretConfig, store, logger)

	// request pipeline: validator -> policy gate -> bounded repository calls
	tokens := token.NewTokenService(logger, secrets)
	gate := gateway.New(tokens, logger)
	bookRepo := book.NewBookRepo(db, logger)
	bookHandler := book.NewBookHandler(bookRepo, gate, cfg.ExecConfig.CallBudget, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(chizap.New(logger, &chizap.Opts{WithReferer: false, WithUserAgent: true}))
	r.Use(httprate.LimitByIP(cfg.AppConfig.RateLimit, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Mount("/books", bookHandler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.AppConfig.Port,
		Handler:      r,
		ReadTimeout:  cfg.AppConfig.ReadTimeout,
		WriteTimeout: cfg.AppConfig.WriteTimeout,
		IdleTimeout:  cfg.AppConfig.IdleTimeout,
	}

	go func() {
		logger.Info("application started", zap.String("port", cfg.AppConfig.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("application stopped")
}
