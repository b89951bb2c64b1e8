package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docbrief/internal/api"
	"github.com/dgallion1/docbrief/internal/batch"
	"github.com/dgallion1/docbrief/internal/config"
	"github.com/dgallion1/docbrief/internal/loader"
	"github.com/dgallion1/docbrief/internal/logger"
	"github.com/dgallion1/docbrief/internal/metrics"
	"github.com/dgallion1/docbrief/internal/parser"
	"github.com/dgallion1/docbrief/internal/progress"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(cfg.StatsWindow)
	obs := progress.Multi(progress.NewLogObserver(log), m)
	popts := parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}

	docs := loader.NewCache(loader.New(cfg.DocumentsDir, cfg.Extensions, popts, obs))
	if _, err := docs.Get(); err != nil {
		log.Warn("initial document load failed", zap.Error(err))
	}

	runner := batch.NewRunner(cfg.ChunkInputDir, cfg.ChunkOutputDir, cfg.PagesPerChunk, cfg.ParagraphsPerChunk, popts, obs)
	history := batch.NewHistory(cfg.RunHistoryTTL)

	// Run history cleanup.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				history.Cleanup()
			}
		}
	}()

	srv := api.NewServer(docs, runner, history, m, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // batch runs are synchronous
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docbrief",
		zap.String("port", cfg.Port),
		zap.String("documents_dir", cfg.DocumentsDir),
		zap.Bool("auth", cfg.APIKey != ""),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
