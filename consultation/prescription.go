package consultation

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Default texts used when no treatment plan has been produced yet. The
// prescription is still valid; the medications carry their own dosages.
const (
	defaultTreatment = "Traitement selon diagnostic"
	defaultPosology  = "Voir posologie des médicaments"
)

// ValidationError reports a precondition failure when assembling a
// prescription. It is a blocking message for the clinician, never a silent
// no-op.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// GeneratePrescription assembles the prescription record from the current
// selections and submits it to the document generation service. The service
// renders the document; this method only assembles and validates.
func (s *Session) GeneratePrescription(ctx context.Context) (json.RawMessage, error) {
	s.mu.Lock()

	if s.patient == nil {
		s.mu.Unlock()
		return nil, &ValidationError{Msg: "aucun patient chargé"}
	}
	if len(s.selectedDiagnostics) == 0 {
		s.mu.Unlock()
		return nil, &ValidationError{Msg: "aucun diagnostic sélectionné"}
	}
	if len(s.selectedMedications) == 0 {
		s.mu.Unlock()
		return nil, &ValidationError{Msg: "aucun médicament sélectionné"}
	}

	names := make([]string, len(s.selectedDiagnostics))
	for i, d := range s.selectedDiagnostics {
		names[i] = d.Disease
	}

	treatment := defaultTreatment
	posology := defaultPosology
	if s.treatment != nil {
		if s.treatment.Treatment != "" {
			treatment = s.treatment.Treatment
		}
		if s.treatment.Posology != "" {
			posology = s.treatment.Posology
		}
	}

	req := PrescriptionRequest{
		Patient:          *s.patient,
		ConsultationDate: s.clock().Format(time.RFC3339),
		Diagnostic:       strings.Join(names, ", "),
		Treatment:        treatment,
		Posology:         posology,
		Medications:      append([]Medication(nil), s.selectedMedications...),
	}
	s.mu.Unlock()

	// Generation is synchronous: the clinician is waiting for the document.
	return s.assist.GeneratePrescription(ctx, req)
}
