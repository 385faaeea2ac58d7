package consultation

import (
	"context"
	"fmt"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/metrics"
)

// Medication selection and interaction checking. A check runs whenever the
// selected set changes and holds at least two medications; below that the
// warnings are simply cleared without a service call.

// SelectDiagnostic retains one of the suggested diagnostics for the
// prescription.
func (s *Session) SelectDiagnostic(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.selectedDiagnostics {
		if d.ID == id {
			return nil
		}
	}
	for _, d := range s.diagnostics {
		if d.ID == id {
			s.selectedDiagnostics = append(s.selectedDiagnostics, d)
			return nil
		}
	}
	return fmt.Errorf("diagnostic %d is not among the current suggestions", id)
}

// DeselectDiagnostic removes a retained diagnostic.
func (s *Session) DeselectDiagnostic(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.selectedDiagnostics {
		if d.ID == id {
			s.selectedDiagnostics = append(s.selectedDiagnostics[:i], s.selectedDiagnostics[i+1:]...)
			return
		}
	}
}

// SelectMedication adds a suggested medication to the prescription set and
// re-checks interactions.
func (s *Session) SelectMedication(id int) error {
	s.mu.Lock()

	for _, m := range s.selectedMedications {
		if m.ID == id {
			s.mu.Unlock()
			return nil
		}
	}

	var found *Medication
	for i := range s.suggestedMedications {
		if s.suggestedMedications[i].ID == id {
			found = &s.suggestedMedications[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return fmt.Errorf("medication %d is not among the current suggestions", id)
	}

	s.selectedMedications = append(s.selectedMedications, *found)
	plan := s.planInteractions(nil)
	s.mu.Unlock()

	s.run(plan)
	return nil
}

// DeselectMedication removes a medication from the prescription set and
// re-checks interactions.
func (s *Session) DeselectMedication(id int) {
	s.mu.Lock()

	removed := false
	for i, m := range s.selectedMedications {
		if m.ID == id {
			s.selectedMedications = append(s.selectedMedications[:i], s.selectedMedications[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.mu.Unlock()
		return
	}

	plan := s.planInteractions(nil)
	s.mu.Unlock()

	s.run(plan)
}

// planInteractions arms the interaction-check stage. Caller must hold the
// lock.
func (s *Session) planInteractions(plan []func()) []func() {
	if len(s.selectedMedications) < 2 {
		s.nextToken(stageInteract)
		s.warnings = make(map[int][]InteractionWarning)
		s.compatible = true
		return plan
	}

	token := s.nextToken(stageInteract)
	meds := append([]Medication(nil), s.selectedMedications...)
	var patient *PatientContext
	if s.patient != nil {
		patient = &PatientContext{Age: s.patient.Age, Gender: s.patient.Gender}
	}

	return append(plan, func() {
		report, err := s.assist.CheckInteractions(context.Background(), meds, patient)
		s.applyInteractions(token, report, err)
	})
}

// applyInteractions fans the warnings out into a per-medication map so each
// medication lists only the warnings it participates in.
func (s *Session) applyInteractions(token uint64, report InteractionReport, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The interaction check is not gated on assistEnabled, only on the
	// selection still being current.
	if s.tokens[stageInteract] != token {
		metrics.AssistStaleDiscarded.WithLabelValues(string(stageInteract)).Inc()
		return
	}
	if err != nil {
		s.stageFailed(stageInteract, err)
		return
	}

	metrics.AssistRequestsTotal.WithLabelValues(string(stageInteract), "ok").Inc()

	byMedication := make(map[int][]InteractionWarning)
	for _, w := range report.Warnings {
		for _, medID := range w.MedicationIDs {
			byMedication[medID] = append(byMedication[medID], w)
		}
	}
	s.warnings = byMedication
	s.compatible = report.Compatible && len(report.Warnings) == 0
}

// WorstSeverity returns the highest-ranking severity among the warnings,
// SeverityNone when there are none. Worst warning wins: high > medium > low.
func WorstSeverity(warnings []InteractionWarning) Severity {
	worst := SeverityNone
	for _, w := range warnings {
		if w.Severity.WorseThan(worst) {
			worst = w.Severity
		}
	}
	return worst
}
