package main

import (
	"context"
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/seed"
	"storefront/internal/store"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close(context.Background())

	if err := seed.Apply(ctx, st.Products); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied: %d products", len(seed.Catalog))
}
