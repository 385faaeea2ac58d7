package consultation

import (
	"context"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/metrics"
)

// stage identifies one step of the suggestion pipeline. The values double as
// metric labels.
type stage string

const (
	stageSuggest  stage = "suggest_analyses"
	stageDiagnose stage = "diagnose"
	stageTreat    stage = "treat"
	stageMeds     stage = "suggest_medications"
	stageInteract stage = "check_interactions"
)

// Request tokens implement discard-on-staleness: each dispatch bumps the
// stage's token and captures the new value; a response only applies if the
// token still matches when it arrives. There is no cancellation of in-flight
// calls, only discard on arrival.

// nextToken bumps and returns the stage token. Caller must hold the lock.
func (s *Session) nextToken(st stage) uint64 {
	s.tokens[st]++
	return s.tokens[st]
}

// tokenCurrent reports whether a response is still wanted. A response is
// stale when a newer request was issued or assistance was switched off.
// Caller must hold the lock.
func (s *Session) tokenCurrent(st stage, token uint64) bool {
	if !s.assistEnabled || s.tokens[st] != token {
		metrics.AssistStaleDiscarded.WithLabelValues(string(st)).Inc()
		logging.Debug("Discarding stale suggestion response",
			"session", s.id.String(),
			"stage", string(st),
		)
		return false
	}
	return true
}

// afterFormChange re-evaluates the pipeline triggers after a section
// mutation. Caller must hold the lock; the returned plan runs after unlock.
func (s *Session) afterFormChange(kind catalog.SectionKind, plan []func()) []func() {
	if kind == catalog.Symptoms || kind == catalog.Antecedents {
		plan = s.planSuggest(plan)
	}
	plan = s.planDiagnosisAndMedications(plan)
	return plan
}

// planSuggest arms the analysis-suggestion stage: it fires when symptoms or
// antecedents change with no pending entry in either, regardless of the
// analyses section. With both lists empty the suggestion cache is cleared
// instead of calling out.
func (s *Session) planSuggest(plan []func()) []func() {
	if !s.assistEnabled || s.symptoms.HasPending() || s.antecedents.HasPending() {
		return plan
	}

	if s.symptoms.CompleteCount() == 0 && s.antecedents.CompleteCount() == 0 {
		s.nextToken(stageSuggest)
		s.suggestedAnalyses = nil
		return plan
	}

	token := s.nextToken(stageSuggest)
	snap := s.snapshotLocked()
	return append(plan, func() {
		suggestions, err := s.assist.SuggestAnalyses(context.Background(), snap)
		s.applySuggest(token, suggestions, err)
	})
}

// diagnosisReady reports whether the diagnosis and medication stages may
// fire: every section settled and at least one entry somewhere. Caller must
// hold the lock.
func (s *Session) diagnosisReady() bool {
	if s.symptoms.HasPending() || s.antecedents.HasPending() || s.analyses.HasPending() {
		return false
	}
	total := s.symptoms.CompleteCount() + s.antecedents.CompleteCount() + s.analyses.CompleteCount()
	return total > 0
}

// planDiagnosisAndMedications arms the diagnosis and medication-suggestion
// stages. They share the readiness condition and the snapshot and run in
// parallel; neither depends on the other's result.
func (s *Session) planDiagnosisAndMedications(plan []func()) []func() {
	if !s.assistEnabled || !s.diagnosisReady() {
		return plan
	}

	snap := s.snapshotLocked()

	diagToken := s.nextToken(stageDiagnose)
	plan = append(plan, func() {
		diagnostics, risks, err := s.assist.Diagnose(context.Background(), snap)
		s.applyDiagnose(diagToken, snap, diagnostics, risks, err)
	})

	medsToken := s.nextToken(stageMeds)
	plan = append(plan, func() {
		medications, err := s.assist.SuggestMedications(context.Background(), snap)
		s.applyMedications(medsToken, medications, err)
	})

	return plan
}

// applySuggest installs an analysis-suggestion response.
func (s *Session) applySuggest(token uint64, suggestions []AnalysisSuggestion, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tokenCurrent(stageSuggest, token) {
		return
	}
	if err != nil {
		s.stageFailed(stageSuggest, err)
		return
	}

	metrics.AssistRequestsTotal.WithLabelValues(string(stageSuggest), "ok").Inc()
	s.suggestedAnalyses = suggestions
}

// applyDiagnose installs a diagnosis response and chains the treatment
// stage on the top-ranked diagnostic.
func (s *Session) applyDiagnose(token uint64, snap FormSnapshot, diagnostics []Diagnostic, risks []DiseaseRisk, err error) {
	s.mu.Lock()

	if !s.tokenCurrent(stageDiagnose, token) {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.stageFailed(stageDiagnose, err)
		s.mu.Unlock()
		return
	}

	metrics.AssistRequestsTotal.WithLabelValues(string(stageDiagnose), "ok").Inc()
	s.diagnostics = diagnostics
	s.diseaseRisks = risks

	var plan []func()
	if top, ok := topDiagnostic(diagnostics); ok {
		treatToken := s.nextToken(stageTreat)
		plan = append(plan, func() {
			treatment, terr := s.assist.PredictTreatment(context.Background(), top.Disease, snap)
			s.applyTreatment(treatToken, treatment, terr)
		})
	}
	s.mu.Unlock()

	s.run(plan)
}

// topDiagnostic picks the diagnostic with the strictly highest probability.
// Ties keep the earliest, matching the service's own ranking order.
func topDiagnostic(diagnostics []Diagnostic) (Diagnostic, bool) {
	if len(diagnostics) == 0 {
		return Diagnostic{}, false
	}
	top := diagnostics[0]
	for _, d := range diagnostics[1:] {
		if d.Probability > top.Probability {
			top = d
		}
	}
	return top, true
}

// applyTreatment installs a treatment-prediction response.
func (s *Session) applyTreatment(token uint64, treatment TreatmentPlan, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tokenCurrent(stageTreat, token) {
		return
	}
	if err != nil {
		s.stageFailed(stageTreat, err)
		return
	}

	metrics.AssistRequestsTotal.WithLabelValues(string(stageTreat), "ok").Inc()
	s.treatment = &treatment
}

// applyMedications installs a medication-suggestion response.
func (s *Session) applyMedications(token uint64, medications []Medication, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tokenCurrent(stageMeds, token) {
		return
	}
	if err != nil {
		s.stageFailed(stageMeds, err)
		return
	}

	metrics.AssistRequestsTotal.WithLabelValues(string(stageMeds), "ok").Inc()
	s.suggestedMedications = medications
}

// stageFailed logs a failed stage and leaves its previous result in place.
// Failures stay local: no retry, no effect on other stages. The stage
// re-fires the next time its trigger condition holds. Caller must hold the
// lock.
func (s *Session) stageFailed(st stage, err error) {
	metrics.AssistRequestsTotal.WithLabelValues(string(st), "error").Inc()
	logging.Warn("Suggestion stage failed, keeping previous result",
		"session", s.id.String(),
		"stage", string(st),
		"error", err,
	)
}
