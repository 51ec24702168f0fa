package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/voxpop/achievements"
	"github.com/danielhkuo/voxpop/cliparse"
	"github.com/danielhkuo/voxpop/db"
	"github.com/danielhkuo/voxpop/middleware"
	"github.com/danielhkuo/voxpop/router"
)

func main() {
	fmt.Println(color.CyanString("__   __        ____            \n\\ \\ / /____  _|  _ \\ ___  _ __  \n \\ V / _ \\ \\/ / |_) / _ \\| '_ \\ \n  | | (_) >  <|  __/ (_) | |_) |\n  |_|\\___/_/\\_\\_|   \\___/| .__/ \n                         |_|    "))
	color.HiBlack("=================================\n")

	// A missing .env is fine; real deployments use the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchemaContext(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	if err := achievements.Seed(ctx, dbConn); err != nil {
		slog.Error("achievement seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	catalog, err := achievements.NewCatalog(dbConn)
	if err != nil {
		slog.Error("catalog cache failed", "error", err)
		os.Exit(1)
	}
	defer catalog.Close()

	// Create router
	mux := router.NewRouter(dbConn, cfg, catalog)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		// Wait for Ctrl-C signal, then let in-flight settlements finish
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "timezone", cfg.Location().String())
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return
	}
	<-stopped
	slog.Info("Server closed")
}
