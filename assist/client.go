// Package assist is the HTTP client for the remote suggestion service:
// analysis suggestions, diagnosis, treatment prediction, medication
// suggestions, interaction checks and prescription rendering. All endpoints
// are JSON over POST.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/consultation"
)

// Client talks to the suggestion service. It implements
// consultation.Assist.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ consultation.Assist = (*Client)(nil)

// NewClient creates a client for the service at baseURL with a per-request
// timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// postJSON sends a JSON body and decodes a JSON response into out. Non-200
// statuses are errors so the pipeline treats them as a failed stage.
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request to %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

// SuggestAnalyses asks which analyses to run given the symptoms and the
// medical history.
func (c *Client) SuggestAnalyses(ctx context.Context, snapshot consultation.FormSnapshot) ([]consultation.AnalysisSuggestion, error) {
	reqBody := struct {
		Symptoms       []consultation.SnapshotEntry `json:"symptoms"`
		MedicalHistory []consultation.SnapshotEntry `json:"medicalHistory"`
		Patient        *consultation.PatientContext `json:"patientInfo,omitempty"`
	}{
		Symptoms:       snapshot.Symptoms,
		MedicalHistory: snapshot.MedicalHistory,
		Patient:        snapshot.Patient,
	}

	var respBody struct {
		Suggestions []consultation.AnalysisSuggestion `json:"suggestions"`
	}
	if err := c.postJSON(ctx, "/suggest-analyses", reqBody, &respBody); err != nil {
		return nil, err
	}
	return respBody.Suggestions, nil
}

// wireDiagnostic tolerates both field names the service uses for the
// disease.
type wireDiagnostic struct {
	ID          int     `json:"id"`
	Disease     string  `json:"disease"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
}

func (w wireDiagnostic) toDiagnostic() consultation.Diagnostic {
	disease := w.Disease
	if disease == "" {
		disease = w.Name
	}
	return consultation.Diagnostic{
		ID:          w.ID,
		Disease:     disease,
		Probability: w.Probability,
	}
}

// Diagnose submits the full form and returns ranked disease hypotheses plus
// population risk percentages.
func (c *Client) Diagnose(ctx context.Context, snapshot consultation.FormSnapshot) ([]consultation.Diagnostic, []consultation.DiseaseRisk, error) {
	var respBody struct {
		Diagnostics  []wireDiagnostic           `json:"diagnostics"`
		DiseaseRisks []consultation.DiseaseRisk `json:"diseaseRisks"`
	}
	if err := c.postJSON(ctx, "/diagnostic", snapshot, &respBody); err != nil {
		return nil, nil, err
	}

	diagnostics := make([]consultation.Diagnostic, 0, len(respBody.Diagnostics))
	for _, d := range respBody.Diagnostics {
		diagnostics = append(diagnostics, d.toDiagnostic())
	}
	return diagnostics, respBody.DiseaseRisks, nil
}

// PredictTreatment fetches the treatment plan for one disease. The disease
// travels as a query parameter, the form as the body.
func (c *Client) PredictTreatment(ctx context.Context, disease string, snapshot consultation.FormSnapshot) (consultation.TreatmentPlan, error) {
	reqBody := struct {
		MedicalHistory []consultation.SnapshotEntry `json:"medicalHistory"`
		Symptoms       []consultation.SnapshotEntry `json:"symptoms"`
		Analyses       []consultation.SnapshotEntry `json:"analyses"`
		RecentDiseases []catalog.RecentDisease      `json:"recentDiseases"`
	}{
		MedicalHistory: snapshot.MedicalHistory,
		Symptoms:       snapshot.Symptoms,
		Analyses:       snapshot.Analyses,
		RecentDiseases: snapshot.RecentDiseases,
	}

	var plan consultation.TreatmentPlan
	path := "/predict-treatment?diagnostic=" + url.QueryEscape(disease)
	if err := c.postJSON(ctx, path, reqBody, &plan); err != nil {
		return consultation.TreatmentPlan{}, err
	}
	return plan, nil
}

// SuggestMedications asks for medication suggestions over the full form.
func (c *Client) SuggestMedications(ctx context.Context, snapshot consultation.FormSnapshot) ([]consultation.Medication, error) {
	var respBody struct {
		Medications []consultation.Medication `json:"medications"`
	}
	if err := c.postJSON(ctx, "/suggest-medications", snapshot, &respBody); err != nil {
		return nil, err
	}
	return respBody.Medications, nil
}

// CheckInteractions validates a medication combination.
func (c *Client) CheckInteractions(ctx context.Context, medications []consultation.Medication, patient *consultation.PatientContext) (consultation.InteractionReport, error) {
	reqBody := struct {
		Medications []consultation.Medication    `json:"medications"`
		Patient     *consultation.PatientContext `json:"patientInfo,omitempty"`
	}{
		Medications: medications,
		Patient:     patient,
	}

	var report consultation.InteractionReport
	if err := c.postJSON(ctx, "/check-interactions", reqBody, &report); err != nil {
		return consultation.InteractionReport{}, err
	}
	return report, nil
}

// GeneratePrescription submits the assembled prescription and returns the
// rendered document as the service produced it.
func (c *Client) GeneratePrescription(ctx context.Context, req consultation.PrescriptionRequest) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := c.postJSON(ctx, "/generate-prescription", req, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
