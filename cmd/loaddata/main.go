package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/01moynul/shopassist-golang/internal/config"
	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/01moynul/shopassist-golang/internal/loader"
)

func main() {
	dir := flag.String("dir", "", "dataset directory (default: DATASET_PATH)")
	watch := flag.Bool("watch", false, "keep running and reload a table when its CSV changes")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 0. --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dir == "" {
		*dir = cfg.Dataset.Path
	}

	// 1. --- Database (Read/Write) ---
	db, err := database.Open(cfg.Database.Driver, cfg.Database.PrimaryDSN)
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to create database tables: %v", err)
	}
	log.Println("Database tables created successfully!")

	// 2. --- Load Every CSV ---
	if _, err := loader.LoadAll(ctx, db, *dir); err != nil {
		log.Fatalf("Error loading data: %v", err)
	}
	log.Println("All data loaded successfully!")

	if !*watch {
		return
	}

	// 3. --- Watch For Changes ---
	w, err := loader.NewWatcher(db, *dir)
	if err != nil {
		log.Fatalf("Failed to watch %s: %v", *dir, err)
	}
	log.Printf("Watching %s for CSV changes...", *dir)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Watcher stopped: %v", err)
	}
}
