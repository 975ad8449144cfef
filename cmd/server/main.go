// Command server runs the PrintManage console API in front of the store.
//
// @title                       PrintManage Console API
// @version                     1.0
// @description                 Backend-for-frontend of the printer fleet console.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/api"
	"github.com/printmanage/console/internal/api/handler"
	"github.com/printmanage/console/internal/core/ports"
	mongodb "github.com/printmanage/console/internal/infrastructure/db/mongo"
	redisdb "github.com/printmanage/console/internal/infrastructure/db/redis"
	"github.com/printmanage/console/internal/infrastructure/remote"
	"github.com/printmanage/console/internal/pkg/config"
	"github.com/printmanage/console/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Development(), App: "printmanage-server"})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	checks := map[string]handler.Check{
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	stores, closeStore, err := openStore(ctx, cfg, checks, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open store")
	}
	defer closeStore()

	e := api.NewRouter(api.Deps{
		Stores:         stores,
		Sessions:       redisdb.NewSessionStore(rdb, cfg.SessionTTL),
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.SessionTTL,
		Checks:         checks,
		DefaultPerPage: cfg.Console.DefaultPerPage,
		ConfirmTTL:     5 * time.Minute,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Store.Backend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

// openStore connects the configured backend and registers its readiness
// check.
func openStore(ctx context.Context, cfg *config.Config, checks map[string]handler.Check, log zerolog.Logger) (ports.StoreFactory, func(), error) {
	if cfg.Store.Backend == config.BackendMongo {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		f := mongodb.NewFactory(db, log.With().Str("component", "mongo").Logger())
		if err := f.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		if err := f.SeedAdmin(ctx, "Administrator", cfg.Mongo.AdminEmail, cfg.Mongo.AdminPassword); err != nil {
			closeFn()
			return nil, nil, err
		}
		checks["mongodb"] = func(ctx context.Context) error { return mongodb.Ping(ctx, client) }
		return f, closeFn, nil
	}

	cl, err := remote.NewClient(remote.Options{
		BaseURL:   cfg.Store.BaseURL,
		Timeout:   cfg.Store.Timeout,
		RateLimit: cfg.Store.RateLimit,
		Burst:     cfg.Store.Burst,
	}, log.With().Str("component", "remote").Logger())
	if err != nil {
		return nil, nil, err
	}
	checks["remote_store"] = cl.Ping
	return remote.NewFactory(cl), func() {}, nil
}
