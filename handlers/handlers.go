// Package handlers provides HTTP request handlers for the consultation API
// endpoints: session lifecycle, section entry operations, suggestion state,
// medication selection, prescription generation, patient lookup, catalog
// serving and health checks.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/consultation"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/interfaces"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
)

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithDomainError maps domain errors onto HTTP statuses.
func respondWithDomainError(w http.ResponseWriter, err error) {
	var vErr *consultation.ValidationError

	switch {
	case errors.Is(err, consultation.ErrSessionNotFound),
		errors.Is(err, consultation.ErrEntryNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, consultation.ErrPendingEntry),
		errors.Is(err, consultation.ErrItemAlreadySelected):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, consultation.ErrUnknownSection),
		errors.Is(err, consultation.ErrUnknownCatalogItem):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &vErr):
		RespondWithError(w, http.StatusUnprocessableEntity, vErr.Msg)
	default:
		logging.Error("Unhandled error in handler", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody decodes a JSON request body, rejecting unknown garbage early.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// sectionKind resolves the {section} URL parameter.
func sectionKind(w http.ResponseWriter, r *http.Request) (catalog.SectionKind, bool) {
	kind := catalog.SectionKind(chi.URLParam(r, "section"))
	if !kind.Valid() {
		RespondWithError(w, http.StatusBadRequest, "unknown section")
		return "", false
	}
	return kind, true
}

// FindPatient looks up a patient by CMU number
func FindPatient(dataStore interfaces.DataStore, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmu, err := validator.ValidateCMU(chi.URLParam(r, "cmuNumber"))
		if err != nil {
			logging.Warn("Unusual user input", "cmuNumber", chi.URLParam(r, "cmuNumber"))
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		patient, found := dataStore.GetPatientByCMU(cmu)
		if !found {
			RespondWithError(w, http.StatusNotFound, "patient not found")
			return
		}
		RespondWithJSON(w, http.StatusOK, patient)
	}
}

// ServeCatalog returns the reference list for one section
func ServeCatalog(dataStore interfaces.DataStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}
		RespondWithJSON(w, http.StatusOK, dataStore.GetCatalog(kind))
	}
}

// HealthCheck returns server health information
func HealthCheck(dataStore interfaces.DataStore, store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(dataStore.GetServerStartTime())

		status := "healthy"
		httpStatus := http.StatusOK
		catalogs := dataStore.GetCatalogs()
		if len(catalogs.Symptoms) == 0 || len(catalogs.Antecedents) == 0 || len(catalogs.Analyses) == 0 {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}

		health := map[string]interface{}{
			"status":           status,
			"uptime_seconds":   int(uptime.Seconds()),
			"active_sessions":  store.Len(),
			"last_data_reload": dataStore.GetLastUpdated().Format(time.RFC3339),
			"updating":         dataStore.IsUpdating(),
			"memory_mb":        memStats.Alloc / 1024 / 1024,
			"goroutines":       runtime.NumGoroutine(),
		}
		RespondWithJSON(w, httpStatus, health)
	}
}
