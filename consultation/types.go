// Package consultation implements the consultation form lifecycle: the three
// selection sections with their completion rules, the staged suggestion
// pipeline, medication interaction checking and prescription assembly.
package consultation

import (
	"context"
	"encoding/json"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

// AnalysisSuggestion is one analysis recommended by the suggestion service
// after reviewing the symptoms and antecedents.
type AnalysisSuggestion struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

// Diagnostic is one disease hypothesis with its estimated probability.
type Diagnostic struct {
	ID          int     `json:"id"`
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
	Explanation string  `json:"explanation,omitempty"`
}

// DiseaseRisk is a population-level risk indicator returned alongside the
// diagnostics.
type DiseaseRisk struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// TreatmentPlan is the treatment text predicted for the retained diagnostic.
type TreatmentPlan struct {
	Diagnostic string `json:"diagnostic"`
	Treatment  string `json:"treatment"`
	Posology   string `json:"posology"`
}

// Medication is one suggested medication.
type Medication struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Indication string  `json:"indication,omitempty"`
	Dosage     string  `json:"dosage,omitempty"`
	Category   string  `json:"category,omitempty"`
	Cost       float64 `json:"cost,omitempty"`
}

// Severity grades an interaction warning. Ordering matters: when several
// warnings touch the same medication the worst one decides its display state.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

var severityRank = map[Severity]int{
	SeverityNone:   0,
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// WorseThan reports whether s outranks other.
func (s Severity) WorseThan(other Severity) bool {
	return severityRank[s] > severityRank[other]
}

// InteractionWarning describes one problematic combination among the
// selected medications.
type InteractionWarning struct {
	MedicationIDs   []int    `json:"medication_ids"`
	MedicationNames []string `json:"medication_names"`
	Severity        Severity `json:"severity"`
	Reason          string   `json:"reason"`
	Recommendation  string   `json:"recommendation"`
}

// InteractionReport is the full result of one interaction check.
type InteractionReport struct {
	Compatible bool                 `json:"compatible"`
	Warnings   []InteractionWarning `json:"warnings"`
}

// PatientContext is the patient summary attached to suggestion requests.
type PatientContext struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// FormSnapshot is the form content sent to the suggestion service: only
// complete entries appear, never pending ones.
type FormSnapshot struct {
	Symptoms       []SnapshotEntry         `json:"symptoms"`
	MedicalHistory []SnapshotEntry         `json:"medicalHistory"`
	Analyses       []SnapshotEntry         `json:"analyses"`
	RecentDiseases []catalog.RecentDisease `json:"recentDiseases,omitempty"`
	Patient        *PatientContext         `json:"patientInfo,omitempty"`
}

// SnapshotEntry is one complete form entry in wire form.
type SnapshotEntry struct {
	ID      int               `json:"id"`
	Name    string            `json:"name"`
	Details map[string]string `json:"details,omitempty"`
	Result  string            `json:"result,omitempty"`
}

// PrescriptionRequest is the payload sent to the document generation
// endpoint of the suggestion service.
type PrescriptionRequest struct {
	Patient          catalog.Patient `json:"patient"`
	ConsultationDate string          `json:"consultationDate"`
	Diagnostic       string          `json:"diagnostic"`
	Treatment        string          `json:"treatment"`
	Posology         string          `json:"posology"`
	Medications      []Medication    `json:"medications"`
}

// Assist is the remote suggestion service as the session consumes it. The
// concrete HTTP client lives in the assist package; tests substitute fakes.
type Assist interface {
	SuggestAnalyses(ctx context.Context, snapshot FormSnapshot) ([]AnalysisSuggestion, error)
	Diagnose(ctx context.Context, snapshot FormSnapshot) ([]Diagnostic, []DiseaseRisk, error)
	PredictTreatment(ctx context.Context, disease string, snapshot FormSnapshot) (TreatmentPlan, error)
	SuggestMedications(ctx context.Context, snapshot FormSnapshot) ([]Medication, error)
	CheckInteractions(ctx context.Context, medications []Medication, patient *PatientContext) (InteractionReport, error)
	GeneratePrescription(ctx context.Context, req PrescriptionRequest) (json.RawMessage, error)
}
