package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/consultation"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/interfaces"
)

// getSession resolves the {sessionID} URL parameter against the store.
func getSession(w http.ResponseWriter, r *http.Request, store *consultation.Store) (*consultation.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	s, err := store.Get(id)
	if err != nil {
		respondWithDomainError(w, err)
		return nil, false
	}
	return s, true
}

// entryID resolves the {entryID} URL parameter.
func entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid entry id")
		return uuid.Nil, false
	}
	return id, true
}

// CreateConsultation opens a new session, optionally preloading the patient
// by CMU number
func CreateConsultation(store *consultation.Store, dataStore interfaces.DataStore, validator interfaces.DataValidator, assist consultation.Assist) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			CMUNumber string `json:"cmuNumber"`
		}
		if r.ContentLength > 0 && !decodeBody(w, r, &body) {
			return
		}

		s := consultation.NewSession(dataStore.GetCatalogs(), dataStore.GetRecentDiseases(), assist)

		if body.CMUNumber != "" {
			cmu, err := validator.ValidateCMU(body.CMUNumber)
			if err != nil {
				RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			patient, found := dataStore.GetPatientByCMU(cmu)
			if !found {
				RespondWithError(w, http.StatusNotFound, "patient not found")
				return
			}
			s.SetPatient(patient)
		}

		store.Put(s)
		RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"sessionId":     s.ID().String(),
			"assistEnabled": s.AssistEnabled(),
			"patient":       s.Patient(),
		})
	}
}

// CloseConsultation discards a session
func CloseConsultation(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "invalid session id")
			return
		}
		store.Delete(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// AttachPatient loads a patient onto an existing session
func AttachPatient(store *consultation.Store, dataStore interfaces.DataStore, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		var body struct {
			CMUNumber string `json:"cmuNumber"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		cmu, err := validator.ValidateCMU(body.CMUNumber)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		patient, found := dataStore.GetPatientByCMU(cmu)
		if !found {
			RespondWithError(w, http.StatusNotFound, "patient not found")
			return
		}

		s.SetPatient(patient)
		RespondWithJSON(w, http.StatusOK, patient)
	}
}

// SetAssist toggles the suggestion pipeline for a session
func SetAssist(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		var body struct {
			Enabled bool `json:"enabled"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		s.SetAssistEnabled(body.Enabled)
		RespondWithJSON(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})
	}
}

// GetAssist returns the suggestion state: suggested analyses, diagnostics,
// risks, treatment, medications and interaction warnings
func GetAssist(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		RespondWithJSON(w, http.StatusOK, s.View())
	}
}

// ServeSection returns a section's entries and the catalog items still
// available
func ServeSection(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}

		entries, err := s.Entries(kind)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		available, _ := s.Available(kind)

		RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"entries":   entries,
			"available": available,
		})
	}
}

// AddEntry opens a new empty entry in a section
func AddEntry(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}

		entry, err := s.AddEntry(kind)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		RespondWithJSON(w, http.StatusCreated, entry)
	}
}

// UpdateLabel records typed text and returns the autocomplete matches
func UpdateLabel(store *consultation.Store, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}
		id, ok := entryID(w, r)
		if !ok {
			return
		}

		var body struct {
			Label string `json:"label"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Label != "" {
			if err := validator.ValidateLabel(body.Label); err != nil {
				RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		matches, err := s.UpdateLabel(kind, id, body.Label)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"suggestions": matches,
		})
	}
}

// AcceptEntrySuggestion binds an entry to a catalog item
func AcceptEntrySuggestion(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}
		id, ok := entryID(w, r)
		if !ok {
			return
		}

		var body struct {
			CatalogID int `json:"catalogId"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		entry, err := s.AcceptSuggestion(kind, id, body.CatalogID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, entry)
	}
}

// SetEntryDetail answers one detail question of an entry
func SetEntryDetail(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}
		id, ok := entryID(w, r)
		if !ok {
			return
		}

		var body struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		entry, err := s.SetDetail(kind, id, body.Name, body.Value)
		if err != nil {
			if errors.Is(err, consultation.ErrEntryNotFound) {
				respondWithDomainError(w, err)
				return
			}
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		RespondWithJSON(w, http.StatusOK, entry)
	}
}

// SetEntryResult captures an analysis result
func SetEntryResult(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}
		id, ok := entryID(w, r)
		if !ok {
			return
		}

		var body struct {
			Value string `json:"value"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		entry, err := s.SetResult(kind, id, body.Value)
		if err != nil {
			if errors.Is(err, consultation.ErrEntryNotFound) {
				respondWithDomainError(w, err)
				return
			}
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		RespondWithJSON(w, http.StatusOK, entry)
	}
}

// BlurEntry signals that an entry lost focus; pending entries are discarded
func BlurEntry(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}
		id, ok := entryID(w, r)
		if !ok {
			return
		}

		removed, err := s.Blur(kind, id)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]bool{"removed": removed})
	}
}

// RemoveEntry deletes an entry
func RemoveEntry(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}
		kind, ok := sectionKind(w, r)
		if !ok {
			return
		}
		id, ok := entryID(w, r)
		if !ok {
			return
		}

		if err := s.RemoveEntry(kind, id); err != nil {
			respondWithDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AcceptSuggestedAnalysis merges a suggested analysis into the analyses
// section
func AcceptSuggestedAnalysis(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		var body consultation.AnalysisSuggestion
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Name == "" {
			RespondWithError(w, http.StatusBadRequest, "suggestion name is required")
			return
		}

		entry := s.AcceptAssistAnalysis(body)
		RespondWithJSON(w, http.StatusOK, entry)
	}
}

// DeselectSuggestedAnalysis undoes an earlier suggestion acceptance
func DeselectSuggestedAnalysis(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		s.DeselectAssistAnalysis(body.Name)
		w.WriteHeader(http.StatusNoContent)
	}
}

// SelectDiagnostic retains or releases a diagnostic for the prescription
func SelectDiagnostic(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		var body struct {
			ID       int  `json:"id"`
			Selected bool `json:"selected"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if body.Selected {
			if err := s.SelectDiagnostic(body.ID); err != nil {
				RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		} else {
			s.DeselectDiagnostic(body.ID)
		}
		RespondWithJSON(w, http.StatusOK, s.View())
	}
}

// SelectMedication adds or removes a medication from the prescription set,
// re-checking interactions
func SelectMedication(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		var body struct {
			ID       int  `json:"id"`
			Selected bool `json:"selected"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		if body.Selected {
			if err := s.SelectMedication(body.ID); err != nil {
				RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		} else {
			s.DeselectMedication(body.ID)
		}
		RespondWithJSON(w, http.StatusOK, s.View())
	}
}

// GeneratePrescription assembles the prescription and returns the rendered
// document
func GeneratePrescription(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		doc, err := s.GeneratePrescription(r.Context())
		if err != nil {
			var vErr *consultation.ValidationError
			if errors.As(err, &vErr) {
				respondWithDomainError(w, err)
				return
			}
			RespondWithError(w, http.StatusBadGateway, "prescription service unavailable")
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(doc)
	}
}

// VerifyMedications returns the current compatibility verdict and warnings.
// The check itself runs automatically on every selection change.
func VerifyMedications(store *consultation.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := getSession(w, r, store)
		if !ok {
			return
		}

		view := s.View()
		RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"compatible": view.Compatible,
			"warnings":   view.Warnings,
		})
	}
}
