package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/salsheli/salsheli-backend/internal/catalog"
	"github.com/salsheli/salsheli-backend/internal/chains"
	"github.com/salsheli/salsheli-backend/internal/compare"
	"github.com/salsheli/salsheli-backend/internal/httpapi"
	"github.com/salsheli/salsheli-backend/internal/search"
	"github.com/salsheli/salsheli-backend/internal/shoppinglist"
	"github.com/salsheli/salsheli-backend/pkg/config"
	"github.com/salsheli/salsheli-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	db, err := openDB(cfg.DB)
	if err != nil {
		logg.Error(context.Background(), "failed to open database", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		logg.Warn(context.Background(), "database unreachable at startup: "+err.Error())
	}
	cancel()

	normalizer := chains.NewNormalizer(chains.BuildChainAliasTable())
	catalogRepo := catalog.NewPostgresRepository(db)
	finder := catalog.NewFinder(catalogRepo, logg, cfg.Compare.CandidateLimit)
	compareSvc := compare.NewService(finder, normalizer, logg, compare.Options{
		LookupConcurrency: cfg.Compare.LookupConcurrency,
		LookupTimeout:     cfg.Compare.LookupTimeout,
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Compare: compareSvc,
		Lists:   shoppinglist.NewStore(db),
		Search:  search.NewClient(cfg.Meili),
		Popular: catalogRepo,
		Chains:  normalizer,
		DB:      db,
		Logger:  logg,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(router, &http2.Server{}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func openDB(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}
