package consultation

import (
	"errors"
	"testing"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

func TestSuggestStageFiresOnSymptomCompletion(t *testing.T) {
	fake := &fakeAssist{
		suggestions: []AnalysisSuggestion{{ID: 3, Name: "goutte épaisse", Priority: "high"}},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")

	if len(fake.suggestCalls) == 0 {
		t.Fatal("Expected analysis-suggestion call after completing a symptom")
	}
	last := fake.suggestCalls[len(fake.suggestCalls)-1]
	if len(last.Symptoms) != 1 || last.Symptoms[0].Name != "fièvre" {
		t.Errorf("Unexpected snapshot symptoms: %+v", last.Symptoms)
	}

	view := s.View()
	if len(view.SuggestedAnalyses) != 1 || view.SuggestedAnalyses[0].Name != "goutte épaisse" {
		t.Errorf("Suggestion cache not installed: %+v", view.SuggestedAnalyses)
	}
}

func TestSuggestStageGatedByPendingEntry(t *testing.T) {
	fake := &fakeAssist{}
	s := newTestSession(fake)

	e, _ := s.AddEntry(catalog.Symptoms)
	if _, err := s.AcceptSuggestion(catalog.Symptoms, e.ID, 1); err != nil {
		t.Fatal(err)
	}

	// fièvre still has an unanswered detail, so no stage may fire
	if len(fake.suggestCalls) != 0 {
		t.Errorf("Expected no suggestion call while entry pending, got %d", len(fake.suggestCalls))
	}
	if len(fake.diagnoseCalls) != 0 {
		t.Errorf("Expected no diagnose call while entry pending, got %d", len(fake.diagnoseCalls))
	}
}

func TestSuggestStageClearsWhenFormEmptied(t *testing.T) {
	fake := &fakeAssist{
		suggestions: []AnalysisSuggestion{{ID: 3, Name: "goutte épaisse"}},
	}
	s := newTestSession(fake)

	e := addCompleteSymptom(s, "forte")
	if len(s.View().SuggestedAnalyses) != 1 {
		t.Fatal("Expected suggestions installed")
	}

	calls := len(fake.suggestCalls)
	if err := s.RemoveEntry(catalog.Symptoms, e.ID); err != nil {
		t.Fatal(err)
	}

	if len(fake.suggestCalls) != calls {
		t.Error("Emptying the form must clear locally, not call the service")
	}
	if len(s.View().SuggestedAnalyses) != 0 {
		t.Error("Expected suggestion cache cleared when both lists empty")
	}
}

func TestDiagnosisStageRequiresAllSectionsSettled(t *testing.T) {
	fake := &fakeAssist{
		diagnostics: []Diagnostic{{ID: 1, Disease: "Malaria", Probability: 81}},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")
	if len(fake.diagnoseCalls) == 0 {
		t.Fatal("Expected diagnose call once all sections settled and one entry present")
	}

	// A pending analysis blocks further diagnose calls
	calls := len(fake.diagnoseCalls)
	e, _ := s.AddEntry(catalog.Analyses)
	if _, err := s.UpdateLabel(catalog.Analyses, e.ID, "frot"); err != nil {
		t.Fatal(err)
	}
	if len(fake.diagnoseCalls) != calls {
		t.Error("Expected no diagnose call while an analysis entry is pending")
	}

	// Completing it re-fires
	if _, err := s.AcceptSuggestion(catalog.Analyses, e.ID, 2); err != nil {
		t.Fatal(err)
	}
	if len(fake.diagnoseCalls) != calls+1 {
		t.Errorf("Expected diagnose re-fire after completion, got %d calls", len(fake.diagnoseCalls))
	}
}

func TestMedicationStageRunsAlongsideDiagnosis(t *testing.T) {
	fake := &fakeAssist{
		medications: []Medication{{ID: 1, Name: "Artéméther"}},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")

	if len(fake.medicationCalls) == 0 {
		t.Fatal("Expected medication-suggestion call with the diagnosis trigger")
	}
	if len(s.View().SuggestedMedications) != 1 {
		t.Error("Expected medication cache installed")
	}
}

func TestTreatmentUsesTopProbabilityDiagnostic(t *testing.T) {
	fake := &fakeAssist{
		diagnostics: []Diagnostic{
			{ID: 1, Disease: "Typhoïde", Probability: 40},
			{ID: 2, Disease: "Malaria", Probability: 72},
		},
		treatment: TreatmentPlan{Diagnostic: "Malaria", Treatment: "ACT", Posology: "3 jours"},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")

	if len(fake.treatCalls) == 0 {
		t.Fatal("Expected treatment call after diagnostics arrived")
	}
	if got := fake.treatCalls[len(fake.treatCalls)-1]; got != "Malaria" {
		t.Errorf("Treatment must use the top-probability diagnostic, got %q", got)
	}
	if s.View().Treatment == nil || s.View().Treatment.Treatment != "ACT" {
		t.Error("Expected treatment plan installed")
	}
}

func TestEndToEndFeverToMalariaTreatment(t *testing.T) {
	fake := &fakeAssist{
		diagnostics: []Diagnostic{{ID: 1, Disease: "Malaria", Probability: 81}},
		treatment:   TreatmentPlan{Diagnostic: "Malaria", Treatment: "ACT", Posology: "3 jours"},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")

	if len(fake.diagnoseCalls) == 0 {
		t.Fatal("Expected diagnosis to fire")
	}
	snap := fake.diagnoseCalls[0]
	if len(snap.Symptoms) != 1 || snap.Symptoms[0].Details["type"] != "forte" {
		t.Errorf("Diagnosis snapshot missing the completed symptom: %+v", snap.Symptoms)
	}
	if len(snap.RecentDiseases) == 0 {
		t.Error("Diagnosis snapshot must carry the recent-disease history")
	}

	if len(fake.treatCalls) != 1 || fake.treatCalls[0] != "Malaria" {
		t.Errorf("Expected one treatment call with Malaria, got %v", fake.treatCalls)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	fake := &fakeAssist{}
	s := newTestSession(fake)

	s.mu.Lock()
	oldToken := s.nextToken(stageSuggest)
	s.nextToken(stageSuggest) // a newer request supersedes it
	s.mu.Unlock()

	s.applySuggest(oldToken, []AnalysisSuggestion{{ID: 1, Name: "périmée"}}, nil)

	if len(s.View().SuggestedAnalyses) != 0 {
		t.Error("Stale suggestion response must be discarded")
	}
}

func TestStaleDiagnosisDoesNotChainTreatment(t *testing.T) {
	fake := &fakeAssist{}
	s := newTestSession(fake)

	s.mu.Lock()
	oldToken := s.nextToken(stageDiagnose)
	s.nextToken(stageDiagnose)
	s.mu.Unlock()

	s.applyDiagnose(oldToken, FormSnapshot{}, []Diagnostic{{ID: 1, Disease: "Malaria", Probability: 81}}, nil, nil)

	if len(s.View().Diagnostics) != 0 {
		t.Error("Stale diagnostics must be discarded")
	}
	if len(fake.treatCalls) != 0 {
		t.Error("A discarded diagnosis must not chain a treatment call")
	}
}

func TestAssistToggleOffDiscardsInFlightResponses(t *testing.T) {
	fake := &fakeAssist{}
	s := newTestSession(fake)

	s.mu.Lock()
	token := s.nextToken(stageMeds)
	s.mu.Unlock()

	s.SetAssistEnabled(false)

	s.applyMedications(token, []Medication{{ID: 1, Name: "X"}}, nil)

	if len(s.View().SuggestedMedications) != 0 {
		t.Error("Response arriving after assist was disabled must be discarded")
	}
}

func TestAssistToggleOnReevaluatesTriggers(t *testing.T) {
	fake := &fakeAssist{
		diagnostics: []Diagnostic{{ID: 1, Disease: "Malaria", Probability: 81}},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")
	s.SetAssistEnabled(false)

	if len(s.View().Diagnostics) != 0 {
		t.Fatal("Disabling assist must empty the caches")
	}

	calls := len(fake.diagnoseCalls)
	s.SetAssistEnabled(true)

	if len(fake.diagnoseCalls) != calls+1 {
		t.Error("Re-enabling assist over a ready form must re-fire the diagnosis stage")
	}
}

func TestStageFailureIsIsolated(t *testing.T) {
	fake := &fakeAssist{
		diagnoseErr: errors.New("service unavailable"),
		medications: []Medication{{ID: 1, Name: "Artéméther"}},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")

	view := s.View()
	if len(view.Diagnostics) != 0 {
		t.Error("Failed diagnosis must not install data")
	}
	if len(view.SuggestedMedications) != 1 {
		t.Error("Medication stage must succeed despite the diagnosis failure")
	}
}

func TestFailedStageKeepsPreviousResult(t *testing.T) {
	fake := &fakeAssist{
		suggestions: []AnalysisSuggestion{{ID: 3, Name: "goutte épaisse"}},
	}
	s := newTestSession(fake)

	addCompleteSymptom(s, "forte")
	if len(s.View().SuggestedAnalyses) != 1 {
		t.Fatal("Expected initial suggestions installed")
	}

	fake.suggestErr = errors.New("timeout")

	// A second completed symptom re-fires the stage, which now fails
	e, _ := s.AddEntry(catalog.Symptoms)
	if _, err := s.AcceptSuggestion(catalog.Symptoms, e.ID, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetDetail(catalog.Symptoms, e.ID, "intensité", "forte"); err != nil {
		t.Fatal(err)
	}

	if len(s.View().SuggestedAnalyses) != 1 {
		t.Error("A failed refresh must keep the previous suggestions")
	}
}
