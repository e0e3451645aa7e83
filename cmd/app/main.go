package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benpsk/item-service/internal/config"
	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/logging"
	"github.com/benpsk/item-service/internal/postgres"
	"github.com/benpsk/item-service/internal/server"
	"github.com/benpsk/item-service/internal/validation"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Err(err).Msg("load .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store item.Store
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("database")
		}
		defer db.Close()
		store = postgres.NewItemStore(db)
	default:
		store = item.NewMemoryStore()
	}

	catalog, err := loadCatalog(cfg.MessagesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("messages")
	}

	r := server.NewRouter(cfg, logger, store, catalog)
	srv := server.New(cfg, r)

	logger.Info().
		Str("url", listenURL(cfg.HTTPAddr)).
		Str("store", cfg.Store.Driver).
		Str("env", cfg.AppEnv).
		Msg("listening")
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
	logger.Info().Msg("server stopped")
}

func loadCatalog(path string) (*validation.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return validation.DefaultCatalog()
	}
	return validation.LoadCatalog(path)
}

func listenURL(addr string) string {
	listen := addr
	if strings.HasPrefix(listen, ":") {
		listen = "127.0.0.1" + listen
	} else if strings.HasPrefix(listen, "0.0.0.0:") {
		listen = "127.0.0.1" + listen[len("0.0.0.0"):]
	}
	if !strings.Contains(listen, "://") {
		listen = "http://" + listen
	}
	return listen
}
