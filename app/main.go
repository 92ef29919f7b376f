package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newspulse/app/alert"
	"newspulse/app/analysis"
	"newspulse/app/api"
	"newspulse/app/cfg"
	"newspulse/app/connector"
	"newspulse/app/database"
	"newspulse/app/history"
	"newspulse/app/pipeline"
	"newspulse/app/source"
	"newspulse/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting NewsPulse", "version", appCfg.Version)

	// Alert ledger database
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open alert ledger", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Alert ledger ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	// Source configurations
	configCache := source.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount())

	// Build one connector per configured source
	connectors := make(map[string]connector.Connector)
	for name, sourceConfig := range configCache.GetConfigs() {
		conn, err := connector.FromConfig(sourceConfig, appCfg.NewsAPIEndpoint, appCfg.NewsAPIKey, appCfg.UserAgent)
		if err != nil {
			slog.Warn("Skipping source", "source", name, "error", err)
			continue
		}
		connectors[name] = conn
	}

	// Core components
	store := history.NewFileStore(appCfg.HistoryFile)
	engine := analysis.NewAdditiveEngine()
	alertRepo := database.NewAlertRepository(db)
	dispatcher := alert.NewDispatcher(alert.NewNotifier(appCfg.SlackWebhookURL))

	newsPipeline := pipeline.NewPipeline(configCache, connectors, store, engine, alertRepo, dispatcher,
		pipeline.Options{
			SpikeThreshold:  appCfg.SpikeThreshold,
			ForecastHorizon: appCfg.ForecastHorizon,
		})

	// Background scheduler
	scheduler := tasks.NewScheduler(configCache, newsPipeline)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)

	// HTTP server
	apiHandler := api.NewHandler(store, alertRepo, configCache, newsPipeline, scheduler)
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
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
