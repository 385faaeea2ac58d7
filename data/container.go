// Package data provides thread-safe storage for the consultation reference
// data. It includes the DataContainer struct with atomic operations for
// zero-downtime reloads and thread-safe access to the catalogs, the patient
// directory and the recent-disease history.
package data

import (
	"sync/atomic"
	"time"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/interfaces"
	"github.com/Christ-Poyah/e-sante-ENTREPRISE/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// itemIndex maps section kind -> item id -> item for O(1) lookups.
type itemIndex map[catalog.SectionKind]map[int]catalog.Item

// DataContainer holds the reference data with atomic pointers for
// zero-downtime reloads.
type DataContainer struct {
	catalogs        atomic.Value // catalog.Catalogs
	itemsByID       atomic.Value // itemIndex
	patients        atomic.Value // []catalog.Patient
	patientsByCMU   atomic.Value // map[string]catalog.Patient
	recentDiseases  atomic.Value // []catalog.RecentDisease
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.catalogs.Store(catalog.Catalogs{})
	dc.itemsByID.Store(make(itemIndex))
	dc.patients.Store(make([]catalog.Patient, 0))
	dc.patientsByCMU.Store(make(map[string]catalog.Patient))
	dc.recentDiseases.Store(make([]catalog.RecentDisease, 0))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetCatalogs returns the three reference catalogs
func (dc *DataContainer) GetCatalogs() catalog.Catalogs {
	if v := dc.catalogs.Load(); v != nil {
		if catalogs, ok := v.(catalog.Catalogs); ok {
			return catalogs
		}
	}

	logging.Warn("Catalogs are empty or invalid")
	return catalog.Catalogs{}
}

// GetCatalog returns the reference list for one section
func (dc *DataContainer) GetCatalog(kind catalog.SectionKind) []catalog.Item {
	return dc.GetCatalogs().Section(kind)
}

// GetCatalogItem returns one catalog item by section and id
func (dc *DataContainer) GetCatalogItem(kind catalog.SectionKind, id int) (catalog.Item, bool) {
	if v := dc.itemsByID.Load(); v != nil {
		if index, ok := v.(itemIndex); ok {
			item, found := index[kind][id]
			return item, found
		}
	}

	logging.Warn("Catalog item index is empty or invalid")
	return catalog.Item{}, false
}

// GetPatients returns the patient directory
func (dc *DataContainer) GetPatients() []catalog.Patient {
	if v := dc.patients.Load(); v != nil {
		if patients, ok := v.([]catalog.Patient); ok {
			return patients
		}
	}

	logging.Warn("Patient directory is empty or invalid")
	return []catalog.Patient{}
}

// GetPatientByCMU looks up a patient by CMU number
func (dc *DataContainer) GetPatientByCMU(cmuNumber string) (catalog.Patient, bool) {
	if v := dc.patientsByCMU.Load(); v != nil {
		if byCMU, ok := v.(map[string]catalog.Patient); ok {
			patient, found := byCMU[cmuNumber]
			return patient, found
		}
	}

	logging.Warn("Patient CMU index is empty or invalid")
	return catalog.Patient{}, false
}

// GetRecentDiseases returns the fixed recent-disease history
func (dc *DataContainer) GetRecentDiseases() []catalog.RecentDisease {
	if v := dc.recentDiseases.Load(); v != nil {
		if recent, ok := v.([]catalog.RecentDisease); ok {
			return recent
		}
	}

	logging.Warn("Recent diseases list is empty or invalid")
	return []catalog.RecentDisease{}
}

// GetLastUpdated returns the timestamp of the last data reload
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data reload is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically replaces all reference data in the container
func (dc *DataContainer) UpdateData(catalogs catalog.Catalogs, patients []catalog.Patient, recent []catalog.RecentDisease) {
	index := make(itemIndex, 3)
	for _, kind := range []catalog.SectionKind{catalog.Symptoms, catalog.Antecedents, catalog.Analyses} {
		byID := make(map[int]catalog.Item)
		for _, item := range catalogs.Section(kind) {
			byID[item.ID] = item
		}
		index[kind] = byID
	}

	byCMU := make(map[string]catalog.Patient, len(patients))
	for _, p := range patients {
		byCMU[p.CMUNumber] = p
	}

	// Atomic swap (zero downtime replacement)
	dc.catalogs.Store(catalogs)
	dc.itemsByID.Store(index)
	dc.patients.Store(patients)
	dc.patientsByCMU.Store(byCMU)
	dc.recentDiseases.Store(recent)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data reload operation
// Returns true if the reload can proceed, false if another is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data reload operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
