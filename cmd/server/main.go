package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/patrickdoane/grail-tracker-redux/internal/api"
	"github.com/patrickdoane/grail-tracker-redux/internal/auth"
	"github.com/patrickdoane/grail-tracker-redux/internal/config"
	"github.com/patrickdoane/grail-tracker-redux/internal/logger"
	"github.com/patrickdoane/grail-tracker-redux/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override the environment for local convenience
	port := flag.String("port", cfg.Port, "Server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	store, err := storage.New(*dbPath)
	if err != nil {
		zl.Fatal("initializing storage", "error", err, "db", *dbPath)
	}
	defer store.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTTL)
	server := api.New(store, tokens, zl, cfg.CORSOrigins)

	zl.Info("grail tracker API starting", "addr", "http://localhost:"+*port, "db", *dbPath)

	if err := http.ListenAndServe(":"+*port, server); err != nil {
		zl.Fatal("server failed", "error", err)
	}
}
