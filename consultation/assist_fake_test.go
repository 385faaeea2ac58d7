package consultation

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

// fakeAssist is an in-memory suggestion service. Combined with an inline
// spawn it makes the whole pipeline synchronous and observable.
type fakeAssist struct {
	mu sync.Mutex

	suggestions []AnalysisSuggestion
	diagnostics []Diagnostic
	risks       []DiseaseRisk
	treatment   TreatmentPlan
	medications []Medication
	report      InteractionReport
	document    json.RawMessage

	suggestErr  error
	diagnoseErr error

	suggestCalls      []FormSnapshot
	diagnoseCalls     []FormSnapshot
	treatCalls        []string
	medicationCalls   []FormSnapshot
	interactionCalls  [][]Medication
	prescriptionCalls []PrescriptionRequest
}

func (f *fakeAssist) SuggestAnalyses(ctx context.Context, snapshot FormSnapshot) ([]AnalysisSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls = append(f.suggestCalls, snapshot)
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions, nil
}

func (f *fakeAssist) Diagnose(ctx context.Context, snapshot FormSnapshot) ([]Diagnostic, []DiseaseRisk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.diagnoseCalls = append(f.diagnoseCalls, snapshot)
	if f.diagnoseErr != nil {
		return nil, nil, f.diagnoseErr
	}
	return f.diagnostics, f.risks, nil
}

func (f *fakeAssist) PredictTreatment(ctx context.Context, disease string, snapshot FormSnapshot) (TreatmentPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treatCalls = append(f.treatCalls, disease)
	return f.treatment, nil
}

func (f *fakeAssist) SuggestMedications(ctx context.Context, snapshot FormSnapshot) ([]Medication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.medicationCalls = append(f.medicationCalls, snapshot)
	return f.medications, nil
}

func (f *fakeAssist) CheckInteractions(ctx context.Context, medications []Medication, patient *PatientContext) (InteractionReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interactionCalls = append(f.interactionCalls, medications)
	return f.report, nil
}

func (f *fakeAssist) GeneratePrescription(ctx context.Context, req PrescriptionRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prescriptionCalls = append(f.prescriptionCalls, req)
	return f.document, nil
}

// newTestSession runs every pipeline worker inline so tests observe the
// effects of each mutation immediately.
func newTestSession(f *fakeAssist) *Session {
	return NewSession(
		catalog.DefaultCatalogs(),
		catalog.DefaultRecentDiseases(),
		f,
		WithSpawn(func(fn func()) { fn() }),
	)
}

// addCompleteSymptom links "fièvre" and answers its type detail.
func addCompleteSymptom(s *Session, detail string) Entry {
	e, err := s.AddEntry(catalog.Symptoms)
	if err != nil {
		panic(err)
	}
	if _, err := s.AcceptSuggestion(catalog.Symptoms, e.ID, 1); err != nil {
		panic(err)
	}
	out, err := s.SetDetail(catalog.Symptoms, e.ID, "type", detail)
	if err != nil {
		panic(err)
	}
	return out
}
