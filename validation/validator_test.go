package validation

import (
	"strings"
	"testing"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

func TestValidateLabel(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "fièvre", false},
		{"valid with accents", "maux de tête sévères", false},
		{"valid with apostrophe", "perte d'appétit", false},
		{"valid with hyphen", "test rapide-paludisme", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 101), true},
		{"script tag", "<script>alert(1)</script>", true},
		{"sql injection", "fièvre' or 1=1", true},
		{"sql comment", "fièvre--", true},
		{"path traversal", "../etc/passwd", true},
		{"command injection", "fièvre; rm", true},
		{"invalid characters", "fièvre@home", true},
		{"excessive repetition", "aaaaaaaaaaaaaaaa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCMU(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "CMU123456", "CMU123456", false},
		{"valid other", "CMU567890", "CMU567890", false},
		{"empty", "", "", true},
		{"too short", "CMU12345", "", true},
		{"too long", "CMU1234567", "", true},
		{"missing prefix", "123456789", "", true},
		{"lowercase prefix", "cmu123456", "", true},
		{"letters in digits", "CMU12A456", "", true},
		{"leading whitespace", " CMU123456", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateCMU(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCMU(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateCMU(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateCatalogItem(t *testing.T) {
	v := NewDataValidator()

	valid := catalog.Item{ID: 1, Name: "fièvre", Details: []catalog.DetailSpec{
		{ID: 1, Name: "type", Options: []string{"cyclique", "forte"}},
	}}
	if err := v.ValidateCatalogItem(&valid); err != nil {
		t.Errorf("Expected valid item to pass, got %v", err)
	}

	if err := v.ValidateCatalogItem(nil); err == nil {
		t.Error("Expected nil item to fail")
	}

	noID := catalog.Item{ID: 0, Name: "fièvre"}
	if err := v.ValidateCatalogItem(&noID); err == nil {
		t.Error("Expected item without id to fail")
	}

	noName := catalog.Item{ID: 1, Name: "  "}
	if err := v.ValidateCatalogItem(&noName); err == nil {
		t.Error("Expected item without name to fail")
	}

	emptyOptions := catalog.Item{ID: 1, Name: "fièvre", Details: []catalog.DetailSpec{
		{ID: 1, Name: "type", Options: nil},
	}}
	if err := v.ValidateCatalogItem(&emptyOptions); err == nil {
		t.Error("Expected detail without options to fail")
	}

	badKind := catalog.Item{ID: 1, Name: "plaquettes", ResultKind: "percentage"}
	if err := v.ValidateCatalogItem(&badKind); err == nil {
		t.Error("Expected unknown result kind to fail")
	}
}

func TestValidateCatalogs(t *testing.T) {
	v := NewDataValidator()

	catalogs := catalog.DefaultCatalogs()
	patients := catalog.DefaultPatients()

	if err := v.ValidateCatalogs(catalogs, patients); err != nil {
		t.Errorf("Expected built-in data set to pass validation, got %v", err)
	}

	// Duplicate ids within a section
	dup := catalogs
	dup.Symptoms = append([]catalog.Item{}, catalogs.Symptoms...)
	dup.Symptoms = append(dup.Symptoms, catalog.Item{ID: 1, Name: "doublon"})
	if err := v.ValidateCatalogs(dup, patients); err == nil {
		t.Error("Expected duplicate symptom id to fail")
	}

	// Empty section
	empty := catalogs
	empty.Analyses = nil
	if err := v.ValidateCatalogs(empty, patients); err == nil {
		t.Error("Expected empty analyses catalog to fail")
	}

	// Duplicate CMU numbers
	dupPatients := append([]catalog.Patient{}, patients...)
	dupPatients = append(dupPatients, catalog.Patient{ID: "PAT006", CMUNumber: "CMU123456", FirstName: "X", LastName: "Y"})
	if err := v.ValidateCatalogs(catalogs, dupPatients); err == nil {
		t.Error("Expected duplicate CMU number to fail")
	}

	// Malformed CMU number
	badPatients := append([]catalog.Patient{}, patients...)
	badPatients[0].CMUNumber = "CMU12"
	if err := v.ValidateCatalogs(catalogs, badPatients); err == nil {
		t.Error("Expected malformed CMU number to fail")
	}

	if err := v.ValidateCatalogs(catalogs, nil); err == nil {
		t.Error("Expected empty patient directory to fail")
	}
}
