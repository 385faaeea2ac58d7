// Package interfaces defines core abstractions for the consultation API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

// DataStore defines the contract for reference-data storage.
// It provides thread-safe access to the catalogs and the patient directory
// with atomic operations for zero-downtime reloads.
type DataStore interface {
	// Data retrieval methods
	GetCatalogs() catalog.Catalogs
	GetCatalog(kind catalog.SectionKind) []catalog.Item
	GetCatalogItem(kind catalog.SectionKind, id int) (catalog.Item, bool)
	GetPatients() []catalog.Patient
	GetPatientByCMU(cmuNumber string) (catalog.Patient, bool)
	GetRecentDiseases() []catalog.RecentDisease
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Data update methods
	UpdateData(catalogs catalog.Catalogs, patients []catalog.Patient, recent []catalog.RecentDisease)
	BeginUpdate() bool
	EndUpdate()
}

// ReferenceLoader defines the contract for loading the reference data set
// (catalogs, patients, recent diseases) from an external source.
type ReferenceLoader interface {
	Load() (catalog.Catalogs, []catalog.Patient, []catalog.RecentDisease, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages reference-data reloads and session expiry sweeps.
type Scheduler interface {
	Start() error
	Stop()
}

// SessionSweeper removes expired consultation sessions. Implemented by the
// consultation session store and driven by the scheduler.
type SessionSweeper interface {
	// Sweep removes expired sessions and returns how many were removed.
	Sweep() int
}

// DataValidator defines the contract for reference-data and user-input
// validation.
type DataValidator interface {
	// ValidateCatalogItem checks if a single catalog item is valid
	ValidateCatalogItem(item *catalog.Item) error

	// ValidateCatalogs performs integrity validation over the full data set
	ValidateCatalogs(catalogs catalog.Catalogs, patients []catalog.Patient) error

	// ValidateLabel validates free-text entry labels typed by the clinician
	ValidateLabel(input string) error

	// ValidateCMU validates a CMU number used for patient lookup
	ValidateCMU(input string) (string, error)
}
