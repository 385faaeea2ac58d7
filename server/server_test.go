package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/config"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/consultation"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/data"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/validation"
)

// stubAssist satisfies the session's service dependency with empty answers.
type stubAssist struct{}

func (stubAssist) SuggestAnalyses(ctx context.Context, s consultation.FormSnapshot) ([]consultation.AnalysisSuggestion, error) {
	return nil, nil
}
func (stubAssist) Diagnose(ctx context.Context, s consultation.FormSnapshot) ([]consultation.Diagnostic, []consultation.DiseaseRisk, error) {
	return nil, nil, nil
}
func (stubAssist) PredictTreatment(ctx context.Context, d string, s consultation.FormSnapshot) (consultation.TreatmentPlan, error) {
	return consultation.TreatmentPlan{}, nil
}
func (stubAssist) SuggestMedications(ctx context.Context, s consultation.FormSnapshot) ([]consultation.Medication, error) {
	return nil, nil
}
func (stubAssist) CheckInteractions(ctx context.Context, m []consultation.Medication, p *consultation.PatientContext) (consultation.InteractionReport, error) {
	return consultation.InteractionReport{Compatible: true}, nil
}
func (stubAssist) GeneratePrescription(ctx context.Context, r consultation.PrescriptionRequest) (json.RawMessage, error) {
	return []byte(`{}`), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logging.InitLogger(t.TempDir())

	dataStore := data.NewDataContainer()
	dataStore.UpdateData(catalog.DefaultCatalogs(), catalog.DefaultPatients(), catalog.DefaultRecentDiseases())

	cfg := &config.Config{
		Port:           "8000",
		Address:        "127.0.0.1",
		Env:            "test",
		MaxRequestBody: 1 << 20,
		MaxHeaderSize:  1 << 20,
	}

	store := consultation.NewStore(time.Hour)
	return NewServer(cfg, dataStore, store, validation.NewDataValidator(), stubAssist{})
}

func TestNewServerConfiguration(t *testing.T) {
	srv := newTestServer(t)

	if srv.server.Addr != "127.0.0.1:8000" {
		t.Errorf("Unexpected listen address: %s", srv.server.Addr)
	}
	if srv.server.ReadTimeout != 15*time.Second {
		t.Errorf("Unexpected read timeout: %v", srv.server.ReadTimeout)
	}
	if srv.server.IdleTimeout != 60*time.Second {
		t.Errorf("Unexpected idle timeout: %v", srv.server.IdleTimeout)
	}
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/catalogs/symptoms", "", http.StatusOK},
		{http.MethodGet, "/patients/CMU123456", "", http.StatusOK},
		{http.MethodPost, "/consultations", `{"cmuNumber":"CMU123456"}`, http.StatusCreated},
		{http.MethodGet, "/nonexistent", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		var req *http.Request
		if tt.body != "" {
			req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(tt.method, tt.path, nil)
		}

		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%s %s returned %d, want %d: %s", tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
		}
	}
}

func TestServerSessionLifecycleThroughRouter(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/consultations", strings.NewReader(`{}`))
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("CreateConsultation returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/consultations/"+resp.SessionID, nil)
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("CloseConsultation returned %d: %s", rec.Code, rec.Body.String())
	}

	if srv.store.Len() != 0 {
		t.Errorf("Expected empty session store after close, got %d", srv.store.Len())
	}
}
