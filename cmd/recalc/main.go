// Command recalc recomputes the stored total of every order from its items
// and current add-on prices.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"delivery-backend/config"
	"delivery-backend/database"

	"github.com/google/uuid"
)

func main() {
	workers := flag.Int("workers", 0, "Orders processed concurrently (defaults to RECALC_WORKERS)")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if *workers < 1 {
		*workers = cfg.RecalcWorkers
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ids, err := database.OrderIDs(ctx, db)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Recalculating %d orders with %d workers", len(ids), *workers)

	var mu sync.Mutex
	res, err := database.RecalculateOrderTotals(ctx, db, ids, *workers, func(id uuid.UUID, changed bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "order %s: %v\n", id, err)
		case changed:
			fmt.Printf("order %s: total updated\n", id)
		}
	})

	log.Printf("Done: %d orders, %d updated, %d failed", res.Total, res.Changed, res.Failed)
	if err != nil {
		log.Fatal("Recalculation interrupted: ", err)
	}
	if res.Failed > 0 {
		os.Exit(1)
	}
}
