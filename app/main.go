package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gqlab/restaurant-board/app/api"
	"github.com/gqlab/restaurant-board/app/cfg"
	"github.com/gqlab/restaurant-board/app/dataset"
	"github.com/gqlab/restaurant-board/app/feedback"
	"github.com/gqlab/restaurant-board/app/sheet"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Restaurant Board server", "version", appCfg.Version)

	registry := dataset.NewRegistry(appCfg.DatasetsDir, int(appCfg.CacheTTL/time.Second))
	if err := registry.Run(); err != nil {
		slog.Error("Failed to load dataset configurations", "error", err)
		os.Exit(1)
	}

	if registry.GetConfigCount() == 0 {
		fallback := &dataset.Config{
			Name:    dataset.DefaultName,
			Title:   "국회앞 식당정보",
			SheetID: appCfg.SheetID,
			GID:     appCfg.SheetGID,
		}
		if err := registry.Add(fallback); err != nil {
			slog.Error("Invalid default dataset", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Datasets loaded", "count", registry.GetConfigCount())

	httpClient := &http.Client{
		Timeout: appCfg.FetchTimeout,
	}
	source := sheet.NewSource(httpClient, appCfg.UserAgent, appCfg.FetchTimeout)
	tableCache := sheet.NewCache(source)

	var submitter api.SubmitterInterface
	if appCfg.FeedbackEnabled() {
		creds := feedback.NewCredentialProvider(appCfg.CredentialsJSON, appCfg.CredentialsFile)
		appender, err := feedback.NewSheetsAppender(context.Background(), creds, appCfg.SheetID, appCfg.FeedbackWorksheet)
		if err != nil {
			slog.Error("Feedback submission disabled", "error", err)
		} else {
			submitter = feedback.NewSubmitter(appender)
			slog.Info("Feedback submission enabled", "worksheet", appCfg.FeedbackWorksheet)
		}
	} else {
		slog.Info("Feedback submission disabled (no credentials configured)")
	}

	apiHandler := api.NewHandler(registry, tableCache, submitter, appCfg.SheetBaseURL, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Restaurant Board server shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
