package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhargavsai259/collegeproject/internal/app"
	"github.com/bhargavsai259/collegeproject/internal/config"
	"github.com/bhargavsai259/collegeproject/internal/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (short)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting Roomify scene builder",
		"version", version,
		"build_time", buildTime,
		"git_commit", gitCommit,
		"classifier", cfg.Pipeline.Classifier,
		"detector_backend", cfg.Models.Detector.Backend,
		"classifier_backend", cfg.Models.Classifier.Backend,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Start(ctx); err != nil {
		log.Error("Failed to start services", "error", err)
		shutdown(application, log)
		os.Exit(1)
	}
	log.Info("Listening", "address", application.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("Received shutdown signal", "signal", sig)

	if err := shutdown(application, log); err != nil {
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}

func shutdown(application *app.App, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		log.Error("Error during shutdown", "error", err)
		return err
	}
	return nil
}
