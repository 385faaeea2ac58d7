// Package server provides HTTP server management and lifecycle handling for the consultation API.
// It includes server setup, middleware configuration, route management, and graceful shutdown
// capabilities with proper error handling and logging.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/config"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/consultation"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/handlers"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/interfaces"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/metrics"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	router    chi.Router
	dataStore interfaces.DataStore
	store     *consultation.Store
	validator interfaces.DataValidator
	assist    consultation.Assist
	config    *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, dataStore interfaces.DataStore, store *consultation.Store, validator interfaces.DataValidator, assist consultation.Assist) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:    router,
		dataStore: dataStore,
		store:     store,
		validator: validator,
		assist:    assist,
		config:    cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Post("/consultations", handlers.CreateConsultation(s.store, s.dataStore, s.validator, s.assist))
	s.router.Route("/consultations/{sessionID}", func(r chi.Router) {
		r.Delete("/", handlers.CloseConsultation(s.store))
		r.Post("/patient", handlers.AttachPatient(s.store, s.dataStore, s.validator))
		r.Get("/assist", handlers.GetAssist(s.store))
		r.Post("/assist", handlers.SetAssist(s.store))
		r.Route("/sections/{section}", func(r chi.Router) {
			r.Get("/", handlers.ServeSection(s.store))
			r.Post("/entries", handlers.AddEntry(s.store))
			r.Route("/entries/{entryID}", func(r chi.Router) {
				r.Post("/label", handlers.UpdateLabel(s.store, s.validator))
				r.Post("/link", handlers.AcceptEntrySuggestion(s.store))
				r.Post("/details", handlers.SetEntryDetail(s.store))
				r.Post("/result", handlers.SetEntryResult(s.store))
				r.Post("/blur", handlers.BlurEntry(s.store))
				r.Delete("/", handlers.RemoveEntry(s.store))
			})
		})
		r.Post("/suggested-analyses/accept", handlers.AcceptSuggestedAnalysis(s.store))
		r.Post("/suggested-analyses/deselect", handlers.DeselectSuggestedAnalysis(s.store))
		r.Post("/diagnostics/selection", handlers.SelectDiagnostic(s.store))
		r.Post("/medications/selection", handlers.SelectMedication(s.store))
		r.Post("/medications/verify", handlers.VerifyMedications(s.store))
		r.Post("/prescription", handlers.GeneratePrescription(s.store))
	})

	s.router.Get("/patients/{cmuNumber}", handlers.FindPatient(s.dataStore, s.validator))
	s.router.Get("/catalogs/{section}", handlers.ServeCatalog(s.dataStore))
	s.router.Get("/health", handlers.HealthCheck(s.dataStore, s.store))
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	// Wait a bit for any ongoing requests to complete
	logging.Info("Waiting for ongoing requests to complete...")
	time.Sleep(2 * time.Second)

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
