package consultation

import (
	"github.com/google/uuid"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

// EntryState is the lifecycle state of a selection entry. An entry starts
// empty, becomes linked once its label matches a catalog item, and is
// complete when every required attribute is filled in.
type EntryState string

const (
	EntryEmpty    EntryState = "empty"
	EntryLinked   EntryState = "linked"
	EntryComplete EntryState = "complete"
)

// DetailField is one detail of a linked entry: the specification copied from
// the catalog plus the clinician's answer.
type DetailField struct {
	Spec  catalog.DetailSpec `json:"spec"`
	Value string             `json:"value"`
}

// Entry is one line of a selection section.
type Entry struct {
	ID              uuid.UUID          `json:"id"`
	Label           string             `json:"label"`
	State           EntryState         `json:"state"`
	LinkedCatalogID int                `json:"linkedCatalogId,omitempty"`
	Details         []DetailField      `json:"details,omitempty"`
	ResultKind      catalog.ResultKind `json:"resultType,omitempty"`
	ResultValue     string             `json:"result,omitempty"`
	Unit            string             `json:"unit,omitempty"`
	Threshold       float64            `json:"threshold,omitempty"`
	Photo           string             `json:"photo,omitempty"`
	FromAssist      bool               `json:"fromAssist,omitempty"`
	// AssistID is the suggestion service's own id for an assist-provided
	// entry. The suggester numbers its results from 1, so this id lives in
	// a different space than LinkedCatalogID and must never be used for
	// catalog availability or link checks.
	AssistID int `json:"assistId,omitempty"`
}

// newEntry creates an empty entry ready for typing.
func newEntry() *Entry {
	return &Entry{
		ID:    uuid.New(),
		State: EntryEmpty,
	}
}

// Pending reports whether the entry still blocks its section: anything not
// complete is pending.
func (e *Entry) Pending() bool {
	return e.State != EntryComplete
}

// link binds the entry to a catalog item, copying the detail specifications
// with empty answers and the result shape for analyses.
func (e *Entry) link(item catalog.Item) {
	e.Label = item.Name
	e.LinkedCatalogID = item.ID
	e.ResultKind = item.ResultKind
	e.Unit = item.Unit
	e.Threshold = item.Threshold
	e.ResultValue = ""

	e.Details = make([]DetailField, len(item.Details))
	for i, spec := range item.Details {
		e.Details[i] = DetailField{Spec: spec}
	}

	e.State = EntryLinked
	e.refreshState()
}

// unlink drops the catalog binding, keeping only the typed label. Happens
// when the label diverges from the linked item's name.
func (e *Entry) unlink() {
	e.LinkedCatalogID = 0
	e.Details = nil
	e.ResultKind = ""
	e.ResultValue = ""
	e.Unit = ""
	e.Threshold = 0
	e.State = EntryEmpty
}

// refreshState recomputes the state from the entry's content. A linked entry
// is complete once every detail has an answer; an entry without details is
// complete as soon as it is linked. Result values are optional extra data
// and never hold an entry pending.
func (e *Entry) refreshState() {
	if e.LinkedCatalogID == 0 {
		e.State = EntryEmpty
		return
	}

	for _, d := range e.Details {
		if d.Value == "" {
			e.State = EntryLinked
			return
		}
	}

	e.State = EntryComplete
}

// snapshot converts a complete entry to its wire form. An assist entry whose
// name never resolved to a catalog item keeps the suggester's id on the wire.
func (e *Entry) snapshot() SnapshotEntry {
	out := SnapshotEntry{
		ID:     e.LinkedCatalogID,
		Name:   e.Label,
		Result: e.ResultValue,
	}
	if out.ID == 0 {
		out.ID = e.AssistID
	}
	if len(e.Details) > 0 {
		out.Details = make(map[string]string, len(e.Details))
		for _, d := range e.Details {
			out.Details[d.Spec.Name] = d.Value
		}
	}
	return out
}
