package consultation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

// ErrUnknownSection is returned when an operation names a section kind the
// form does not have.
var ErrUnknownSection = errors.New("unknown section")

// Session owns the full state of one consultation form: the three selection
// sections, the suggestion caches produced by the pipeline, the medication
// selection with its warnings, and the patient. All mutations go through the
// exported methods and are serialized by the session mutex; suggestion
// service calls are the only suspension points and never run under the lock.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	createdAt time.Time

	patient        *catalog.Patient
	recentDiseases []catalog.RecentDisease

	assistEnabled bool

	symptoms    *Section
	antecedents *Section
	analyses    *Section

	// Pipeline-owned caches, replaced wholesale on each successful stage
	// response.
	suggestedAnalyses    []AnalysisSuggestion
	diagnostics          []Diagnostic
	diseaseRisks         []DiseaseRisk
	treatment            *TreatmentPlan
	suggestedMedications []Medication

	selectedDiagnostics []Diagnostic
	selectedMedications []Medication
	warnings            map[int][]InteractionWarning
	compatible          bool

	tokens map[stage]uint64

	assist Assist
	spawn  func(func())
	clock  func() time.Time
}

// Option customizes a session, mainly for tests.
type Option func(*Session)

// WithSpawn overrides how pipeline workers are launched. The default runs
// each worker in its own goroutine; tests run them inline.
func WithSpawn(spawn func(func())) Option {
	return func(s *Session) { s.spawn = spawn }
}

// WithClock overrides the time source used for prescription timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// NewSession creates a consultation session over the given reference data.
func NewSession(catalogs catalog.Catalogs, recent []catalog.RecentDisease, assist Assist, opts ...Option) *Session {
	s := &Session{
		id:             uuid.New(),
		createdAt:      time.Now(),
		recentDiseases: recent,
		assistEnabled:  true,
		symptoms:       newSection(catalog.Symptoms, catalogs.Symptoms),
		antecedents:    newSection(catalog.Antecedents, catalogs.Antecedents),
		analyses:       newSection(catalog.Analyses, catalogs.Analyses),
		warnings:       make(map[int][]InteractionWarning),
		compatible:     true,
		tokens:         make(map[stage]uint64),
		assist:         assist,
		spawn:          func(fn func()) { go fn() },
		clock:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// section resolves a section kind. Caller must hold the lock.
func (s *Session) section(kind catalog.SectionKind) (*Section, error) {
	switch kind {
	case catalog.Symptoms:
		return s.symptoms, nil
	case catalog.Antecedents:
		return s.antecedents, nil
	case catalog.Analyses:
		return s.analyses, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSection, kind)
}

// SetPatient attaches the patient record to the consultation.
func (s *Session) SetPatient(p catalog.Patient) {
	s.mu.Lock()
	s.patient = &p
	s.mu.Unlock()
}

// Patient returns the attached patient, if any.
func (s *Session) Patient() *catalog.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patient == nil {
		return nil
	}
	p := *s.patient
	return &p
}

// SetAssistEnabled toggles the suggestion pipeline. Turning it off empties
// the caches and invalidates every in-flight request; responses already on
// the wire are discarded on arrival. Turning it back on re-evaluates the
// triggers against the current form.
func (s *Session) SetAssistEnabled(enabled bool) {
	s.mu.Lock()
	if s.assistEnabled == enabled {
		s.mu.Unlock()
		return
	}
	s.assistEnabled = enabled

	var plan []func()
	if !enabled {
		for st := range s.tokens {
			s.tokens[st]++
		}
		s.suggestedAnalyses = nil
		s.diagnostics = nil
		s.diseaseRisks = nil
		s.treatment = nil
		s.suggestedMedications = nil
	} else {
		plan = s.planSuggest(plan)
		plan = s.planDiagnosisAndMedications(plan)
	}
	s.mu.Unlock()

	s.run(plan)
}

// AssistEnabled reports the current toggle state.
func (s *Session) AssistEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistEnabled
}

// AddEntry opens a new empty entry in the given section.
func (s *Session) AddEntry(kind catalog.SectionKind) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := s.section(kind)
	if err != nil {
		return Entry{}, err
	}
	e, err := sec.AddEntry()
	if err != nil {
		return Entry{}, err
	}
	return *e, nil
}

// UpdateLabel records typed text and returns the autocomplete matches.
// Adding or editing text never completes an entry, so no pipeline trigger
// can fire here.
func (s *Session) UpdateLabel(kind catalog.SectionKind, id uuid.UUID, label string) ([]catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := s.section(kind)
	if err != nil {
		return nil, err
	}
	return sec.UpdateLabel(id, label)
}

// AcceptSuggestion binds an entry to a catalog item picked from the
// dropdown.
func (s *Session) AcceptSuggestion(kind catalog.SectionKind, id uuid.UUID, catalogID int) (Entry, error) {
	s.mu.Lock()
	sec, err := s.section(kind)
	if err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	if err := sec.Link(id, catalogID); err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	e, _ := sec.findEntry(id)
	out := *e
	plan := s.afterFormChange(kind, nil)
	s.mu.Unlock()

	s.run(plan)
	return out, nil
}

// SetDetail answers one detail question of an entry.
func (s *Session) SetDetail(kind catalog.SectionKind, id uuid.UUID, detailName, value string) (Entry, error) {
	s.mu.Lock()
	sec, err := s.section(kind)
	if err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	if err := sec.SetDetail(id, detailName, value); err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	e, _ := sec.findEntry(id)
	out := *e
	plan := s.afterFormChange(kind, nil)
	s.mu.Unlock()

	s.run(plan)
	return out, nil
}

// SetResult captures an analysis result.
func (s *Session) SetResult(kind catalog.SectionKind, id uuid.UUID, value string) (Entry, error) {
	s.mu.Lock()
	sec, err := s.section(kind)
	if err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	if err := sec.SetResult(id, value); err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	e, _ := sec.findEntry(id)
	out := *e
	plan := s.afterFormChange(kind, nil)
	s.mu.Unlock()

	s.run(plan)
	return out, nil
}

// Blur discards the entry if it is still pending.
func (s *Session) Blur(kind catalog.SectionKind, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	sec, err := s.section(kind)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	removed, err := sec.Blur(id)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	var plan []func()
	if removed {
		plan = s.afterFormChange(kind, nil)
	}
	s.mu.Unlock()

	s.run(plan)
	return removed, nil
}

// RemoveEntry deletes an entry, releasing its catalog item.
func (s *Session) RemoveEntry(kind catalog.SectionKind, id uuid.UUID) error {
	s.mu.Lock()
	sec, err := s.section(kind)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := sec.RemoveEntry(id); err != nil {
		s.mu.Unlock()
		return err
	}
	plan := s.afterFormChange(kind, nil)
	s.mu.Unlock()

	s.run(plan)
	return nil
}

// Entries returns a copy of a section's entries.
func (s *Session) Entries(kind catalog.SectionKind) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := s.section(kind)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(sec.Entries()))
	for _, e := range sec.Entries() {
		out = append(out, *e)
	}
	return out, nil
}

// Available returns the catalog items a section still offers.
func (s *Session) Available(kind catalog.SectionKind) ([]catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, err := s.section(kind)
	if err != nil {
		return nil, err
	}
	return sec.Available(), nil
}

// AcceptAssistAnalysis merges a suggested analysis into the analyses
// section.
func (s *Session) AcceptAssistAnalysis(sg AnalysisSuggestion) Entry {
	s.mu.Lock()
	e := s.analyses.acceptAssist(sg)
	out := *e
	plan := s.afterFormChange(catalog.Analyses, nil)
	s.mu.Unlock()

	s.run(plan)
	return out
}

// DeselectAssistAnalysis undoes an earlier suggestion acceptance by name.
func (s *Session) DeselectAssistAnalysis(name string) {
	s.mu.Lock()
	s.analyses.deselectAssist(name)
	plan := s.afterFormChange(catalog.Analyses, nil)
	s.mu.Unlock()

	s.run(plan)
}

// AssistView is the read model of the suggestion state.
type AssistView struct {
	Enabled              bool                         `json:"enabled"`
	SuggestedAnalyses    []AnalysisSuggestion         `json:"suggestedAnalyses"`
	Diagnostics          []Diagnostic                 `json:"diagnostics"`
	DiseaseRisks         []DiseaseRisk                `json:"diseaseRisks"`
	Treatment            *TreatmentPlan               `json:"treatment,omitempty"`
	SuggestedMedications []Medication                 `json:"suggestedMedications"`
	SelectedDiagnostics  []Diagnostic                 `json:"selectedDiagnostics"`
	SelectedMedications  []Medication                 `json:"selectedMedications"`
	Warnings             map[int][]InteractionWarning `json:"warnings"`
	Compatible           bool                         `json:"compatible"`
}

// View returns a copy of the pipeline caches and selections.
func (s *Session) View() AssistView {
	s.mu.Lock()
	defer s.mu.Unlock()

	warnings := make(map[int][]InteractionWarning, len(s.warnings))
	for id, ws := range s.warnings {
		warnings[id] = append([]InteractionWarning(nil), ws...)
	}

	var treatment *TreatmentPlan
	if s.treatment != nil {
		t := *s.treatment
		treatment = &t
	}

	return AssistView{
		Enabled:              s.assistEnabled,
		SuggestedAnalyses:    append([]AnalysisSuggestion(nil), s.suggestedAnalyses...),
		Diagnostics:          append([]Diagnostic(nil), s.diagnostics...),
		DiseaseRisks:         append([]DiseaseRisk(nil), s.diseaseRisks...),
		Treatment:            treatment,
		SuggestedMedications: append([]Medication(nil), s.suggestedMedications...),
		SelectedDiagnostics:  append([]Diagnostic(nil), s.selectedDiagnostics...),
		SelectedMedications:  append([]Medication(nil), s.selectedMedications...),
		Warnings:             warnings,
		Compatible:           s.compatible,
	}
}

// snapshotLocked builds the wire form of the complete entries. Caller must
// hold the lock.
func (s *Session) snapshotLocked() FormSnapshot {
	snap := FormSnapshot{
		Symptoms:       s.symptoms.snapshot(),
		MedicalHistory: s.antecedents.snapshot(),
		Analyses:       s.analyses.snapshot(),
		RecentDiseases: s.recentDiseases,
	}
	if s.patient != nil {
		snap.Patient = &PatientContext{Age: s.patient.Age, Gender: s.patient.Gender}
	}
	return snap
}

// run executes a dispatch plan outside the lock.
func (s *Session) run(plan []func()) {
	for _, fn := range plan {
		s.spawn(fn)
	}
}
