// Command console is the interactive terminal front end of PrintManage.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/printmanage/console/internal/console"
	"github.com/printmanage/console/internal/core/ports"
	mongodb "github.com/printmanage/console/internal/infrastructure/db/mongo"
	"github.com/printmanage/console/internal/infrastructure/remote"
	"github.com/printmanage/console/internal/pkg/config"
	"github.com/printmanage/console/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr, App: "printmanage-console"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to open store")
	}
	defer closeStore()

	app := console.NewApp(stores, console.Config{
		PerPage:  cfg.Console.DefaultPerPage,
		Debounce: cfg.Console.SearchDebounce,
	}, os.Stdin, os.Stdout, log)
	app.Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.StoreFactory, func(), error) {
	if cfg.Store.Backend == config.BackendMongo {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		f := mongodb.NewFactory(db, log.With().Str("component", "mongo").Logger())
		if err := f.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return f, func() { _ = client.Disconnect(context.Background()) }, nil
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
	return remote.NewFactory(cl), func() {}, nil
}
