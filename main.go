package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/pollgate/cliparse"
	"github.com/danielhkuo/pollgate/db"
	"github.com/danielhkuo/pollgate/engine"
	"github.com/danielhkuo/pollgate/middleware"
	"github.com/danielhkuo/pollgate/router"
)

func main() {
	var err error

	// Load .env before reading flags; real environment variables win
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Warn("could not read .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger := slog.Default()

	// Choose storage
	var deps engine.Dependencies
	deps.Logger = logger
	if cfg.DatabaseType == db.TypeMemory {
		store := db.NewMemoryStore()
		deps.Polls, deps.Payments = store, store
		slog.Warn("Using in-memory storage; data is lost on restart")
	} else {
		var conn *sql.DB
		conn, err = db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
			os.Exit(1)
		}
		defer conn.Close()

		// Create schema (tables)
		if err := db.CreateSchema(ctx, conn); err != nil {
			slog.Error("schema creation failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Database schema ready", "type", cfg.DatabaseType)

		store := db.NewStore(conn, cfg.DatabaseType, logger)
		deps.Polls, deps.Payments = store, store
	}

	svc := engine.New(deps)

	// Create router
	mux := router.NewRouter(svc, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight requests finish
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
