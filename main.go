package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/assist"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/config"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/consultation"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/data"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/scheduler"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/server"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/validation"
)

func init() {
	// Read the env variables from the working directory, falling back to the
	// executable directory
	if err := godotenv.Load(); err != nil {
		ex, err := os.Executable()
		if err != nil {
			slog.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		if err := os.Chdir(filepath.Dir(ex)); err != nil {
			slog.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithRotation("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	validator := validation.NewDataValidator()
	loader := catalog.NewLoader(cfg.DataDir)
	sessions := consultation.NewStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	assistClient := assist.NewClient(cfg.AssistBaseURL, time.Duration(cfg.AssistTimeoutSecs)*time.Second)

	sched := scheduler.NewScheduler(dataContainer, loader, validator, sessions)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer, sessions, validator, assistClient)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}
}
