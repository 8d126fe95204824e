package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/docsift/internal/api"
	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("DOCSIFT_CONFIG"))
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := pipeline.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Error("init models", "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(cfg, backend.Models, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, backend.Client, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if err := backend.Close(); err != nil {
			log.Warn("close backend", "error", err)
		}
	}()

	log.Info("starting docsift", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
