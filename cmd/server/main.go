/*
main.go - Liability engine server entry point

PURPOSE:
  Starts the HTTP API server for the termination liability engine. Wires
  the SQLite run store, the HTTP handlers, and the background revaluation
  scheduler, and shuts everything down cleanly on SIGINT/SIGTERM.

CONFIGURATION:
  Flags (env vars via .env with the same names, flags win):
    -port    Listen port (default 8080, env PORT)
    -db      SQLite database path (default ./data/liability.db, env DB_PATH)
    -log     Log level: debug, info, warn, error (default info, env LOG_LEVEL)
    -pretty  Human-readable console logs instead of JSON

USAGE:
  go run ./cmd/server
  go run ./cmd/server -port 9090 -db /tmp/liability.db -pretty
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/liability-engine/api"
	"github.com/warp/liability-engine/pkg/logger"
	"github.com/warp/liability-engine/store/sqlite"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	godotenv.Load()

	var (
		port     = flag.String("port", envOr("PORT", "8080"), "HTTP listen port")
		dbPath   = flag.String("db", envOr("DB_PATH", "./data/liability.db"), "SQLite database path")
		logLevel = flag.String("log", envOr("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
		pretty   = flag.Bool("pretty", false, "human-readable console logs")
	)
	flag.Parse()

	log := logger.New(logger.Config{Level: *logLevel, Pretty: *pretty})
	logger.SetGlobalLogger(log)

	if dir := filepath.Dir(*dbPath); dir != "." && dir != ":" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("failed to create data directory")
		}
	}

	runs, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("failed to open run store")
	}
	defer runs.Close()

	handler := api.NewHandler(runs, log)
	router := api.NewRouter(handler)

	sched := api.NewRevaluationScheduler(handler, log)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", *dbPath).Msg("liability engine listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
