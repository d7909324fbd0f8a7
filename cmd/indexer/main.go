// Command indexer syncs the product catalog into the Meilisearch index.
// Run with -rebuild to drop and reindex from scratch.
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/salsheli/salsheli-backend/internal/search"
	"github.com/salsheli/salsheli-backend/pkg/config"
	"github.com/salsheli/salsheli-backend/pkg/logger"
)

func main() {
	rebuild := flag.Bool("rebuild", false, "drop the index and reindex everything")
	batchSize := flag.Int("batch-size", 1000, "rows per indexing batch")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "indexer"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "indexer",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	db, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		logg.Error(context.Background(), "failed to open database", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	indexer := search.NewIndexer(db, cfg.Meili, logg)

	var indexed int
	if *rebuild {
		indexed, err = indexer.RebuildIndex(ctx, *batchSize)
	} else {
		indexed, err = indexer.IndexNewProducts(ctx, *batchSize)
	}
	if err != nil {
		logg.Error(ctx, "indexing failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "indexed", indexed), "indexing finished")
}
