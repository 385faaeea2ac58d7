package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderBuiltinsWhenNoDir(t *testing.T) {
	loader := NewLoader("")

	catalogs, patients, recent, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(catalogs.Symptoms) != 10 {
		t.Errorf("Expected 10 built-in symptoms, got %d", len(catalogs.Symptoms))
	}
	if len(catalogs.Antecedents) != 5 {
		t.Errorf("Expected 5 built-in antecedents, got %d", len(catalogs.Antecedents))
	}
	if len(catalogs.Analyses) != 5 {
		t.Errorf("Expected 5 built-in analyses, got %d", len(catalogs.Analyses))
	}
	if len(patients) != 5 {
		t.Errorf("Expected 5 built-in patients, got %d", len(patients))
	}
	if len(recent) != 2 {
		t.Errorf("Expected 2 built-in recent diseases, got %d", len(recent))
	}
}

func TestLoaderReadsFilesFromDir(t *testing.T) {
	dir := t.TempDir()
	symptoms := `[{"id": 1, "name": "toux", "details": [{"id": 1, "name": "type", "options": ["sèche", "grasse"]}]}]`
	if err := os.WriteFile(filepath.Join(dir, "symptoms.json"), []byte(symptoms), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	loader := NewLoader(dir)
	catalogs, _, _, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(catalogs.Symptoms) != 1 {
		t.Fatalf("Expected 1 symptom from file, got %d", len(catalogs.Symptoms))
	}
	if catalogs.Symptoms[0].Name != "toux" {
		t.Errorf("Expected symptom 'toux', got %q", catalogs.Symptoms[0].Name)
	}

	// Files not present in the dir keep their built-in values
	if len(catalogs.Antecedents) != 5 {
		t.Errorf("Expected built-in antecedents when file is absent, got %d", len(catalogs.Antecedents))
	}
}

func TestLoaderRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "patients.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	loader := NewLoader(dir)
	if _, _, _, err := loader.Load(); err == nil {
		t.Error("Expected an error for a malformed reference file")
	}
}
