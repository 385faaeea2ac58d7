// Package scheduler manages the periodic jobs of the consultation API:
// reference-data reloads, expired-session sweeps and data health monitoring.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/interfaces"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
)

// Scheduler drives the background jobs through injected dependencies.
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.ReferenceLoader
	validator interfaces.DataValidator
	sweeper   interfaces.SessionSweeper
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.ReferenceLoader, validator interfaces.DataValidator, sweeper interfaces.SessionSweeper) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validator,
		sweeper:   sweeper,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial data load and schedules the recurring jobs
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.reloadData(); err != nil {
		logging.Error("Failed to perform initial data load", "error", err)
		return fmt.Errorf("initial data load failed: %w", err)
	}

	// Reload reference data daily at 06:00
	if _, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.reloadData(); err != nil {
			logging.Error("Failed to reload reference data", "error", err)
		}
	}); err != nil {
		logging.Error("Failed to schedule data reloads", "error", err)
		return fmt.Errorf("failed to schedule data reloads: %w", err)
	}

	// Sweep expired sessions every 5 minutes
	if _, err := s.scheduler.Every(5).Minutes().Do(func() {
		if removed := s.sweeper.Sweep(); removed > 0 {
			logging.Info("Swept expired consultation sessions", "removed", removed)
		}
	}); err != nil {
		logging.Error("Failed to schedule session sweeps", "error", err)
		return fmt.Errorf("failed to schedule session sweeps: %w", err)
	}

	s.scheduler.StartAsync()

	// Start health monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// reloadData loads and validates the full reference data set, then swaps it
// in atomically
func (s *Scheduler) reloadData() error {
	// Prevent concurrent reloads
	if !s.dataStore.BeginUpdate() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()

	catalogs, patients, recent, err := s.loader.Load()
	if err != nil {
		logging.Error("Failed to load reference data", "error", err)
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	// A data set that fails validation never reaches the container
	if err := s.validator.ValidateCatalogs(catalogs, patients); err != nil {
		logging.Error("Reference data failed validation", "error", err)
		return fmt.Errorf("reference data failed validation: %w", err)
	}

	s.dataStore.UpdateData(catalogs, patients, recent)

	elapsed := time.Since(start)
	logging.Info("Reference data reload completed",
		"duration", elapsed.String(),
		"symptoms", len(catalogs.Symptoms),
		"antecedents", len(catalogs.Antecedents),
		"analyses", len(catalogs.Analyses),
		"patients", len(patients),
	)

	return nil
}

// startHealthMonitoring monitors the freshness of the reference data
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Reference data hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
