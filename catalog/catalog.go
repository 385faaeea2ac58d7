// Package catalog defines the static reference data consumed by consultation
// sessions: the symptom, antecedent and analysis catalogs with their detail
// specifications, the patient directory, and the recent-disease history.
// The data is immutable for the lifetime of a consultation session.
package catalog

// SectionKind identifies one of the three selection sections of the
// consultation form.
type SectionKind string

const (
	Symptoms    SectionKind = "symptoms"
	Antecedents SectionKind = "antecedents"
	Analyses    SectionKind = "analyses"
)

// Valid reports whether k names a known section.
func (k SectionKind) Valid() bool {
	switch k {
	case Symptoms, Antecedents, Analyses:
		return true
	}
	return false
}

// ResultKind describes how an analysis result is captured.
type ResultKind string

const (
	ResultBoolean ResultKind = "boolean"
	ResultNumeric ResultKind = "numeric"
	ResultText    ResultKind = "text"
)

// DetailSpec is a named enumerated sub-attribute of a catalog item, for
// example "fréquence: première fois / récidive / multiple".
type DetailSpec struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Item is one entry of a reference catalog. Analyses additionally carry a
// result kind and, for numeric results, a unit and an alert threshold.
type Item struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Details    []DetailSpec `json:"details,omitempty"`
	ResultKind ResultKind   `json:"resultType,omitempty"`
	Unit       string       `json:"unit,omitempty"`
	Threshold  float64      `json:"threshold,omitempty"`
}

// Catalogs groups the three reference lists.
type Catalogs struct {
	Symptoms    []Item `json:"symptoms"`
	Antecedents []Item `json:"antecedents"`
	Analyses    []Item `json:"analyses"`
}

// Section returns the list for the given section kind.
func (c Catalogs) Section(kind SectionKind) []Item {
	switch kind {
	case Symptoms:
		return c.Symptoms
	case Antecedents:
		return c.Antecedents
	case Analyses:
		return c.Analyses
	}
	return nil
}

// Patient is one record of the static patient directory, looked up by CMU
// number.
type Patient struct {
	ID          string `json:"id"`
	CMUNumber   string `json:"cmuNumber"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Age         int    `json:"age"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
}

// RecentDisease is one entry of the fixed recent-disease history sent with
// diagnostic requests. DaysAgo counts back from the consultation date.
type RecentDisease struct {
	Name    string `json:"name"`
	DaysAgo int    `json:"date"`
}
