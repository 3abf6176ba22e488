package main

import (
	"context"
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect db: %v", err)
		}
		defer pool.Close()

		if err := migrate.ApplyPostgres(ctx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
	case config.DriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatalf("connect mongo: %v", err)
		}
		defer client.Disconnect(context.Background())

		if err := migrate.ApplyMongo(ctx, client, cfg.MongoDatabase); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
	default:
		logger.Fatalf("unknown store driver %q", cfg.StoreDriver)
	}

	logger.Printf("migrations applied (%s)", cfg.StoreDriver)
}
