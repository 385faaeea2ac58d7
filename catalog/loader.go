package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
)

// Loader reads the reference data set from JSON files in a data directory.
// A missing directory or file falls back to the built-in data, so the server
// always starts with a usable catalog.
type Loader struct {
	dir string
}

// NewLoader creates a loader for the given data directory. An empty dir
// means built-ins only.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load returns the catalogs, the patient directory and the recent-disease
// history, reading each from its JSON file when present.
func (l *Loader) Load() (Catalogs, []Patient, []RecentDisease, error) {
	catalogs := DefaultCatalogs()
	patients := DefaultPatients()
	recent := DefaultRecentDiseases()

	if l.dir == "" {
		return catalogs, patients, recent, nil
	}

	if err := l.readFile("symptoms.json", &catalogs.Symptoms); err != nil {
		return Catalogs{}, nil, nil, err
	}
	if err := l.readFile("antecedents.json", &catalogs.Antecedents); err != nil {
		return Catalogs{}, nil, nil, err
	}
	if err := l.readFile("analyses.json", &catalogs.Analyses); err != nil {
		return Catalogs{}, nil, nil, err
	}
	if err := l.readFile("patients.json", &patients); err != nil {
		return Catalogs{}, nil, nil, err
	}
	if err := l.readFile("recent_diseases.json", &recent); err != nil {
		return Catalogs{}, nil, nil, err
	}

	return catalogs, patients, recent, nil
}

// readFile decodes one reference file into dst. A missing file keeps the
// built-in value already present in dst; a malformed file is an error
// because serving a half-read catalog would be worse than refusing to load.
func (l *Loader) readFile(name string, dst any) error {
	path := filepath.Join(l.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("Reference file not found, using built-in data", "file", name)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
