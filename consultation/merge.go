package consultation

// Reconciliation of accepted analysis suggestions with the manually entered
// analyses. Name equality is exact and case sensitive: the clinician's
// wording wins over loose matching here because a merged photo must never
// land on a different analysis.

// acceptAssist merges one accepted suggestion into the section. When a
// manual entry already carries the same name only its photo changes; its id,
// result and details are untouched. Otherwise the suggestion becomes a new
// complete entry flagged as assist-provided.
func (s *Section) acceptAssist(sg AnalysisSuggestion) *Entry {
	for _, e := range s.entries {
		if e.Label == sg.Name {
			e.Photo = sg.Photo
			return e
		}
	}

	e := newEntry()
	e.Label = sg.Name
	e.AssistID = sg.ID
	// The suggestion's own id is service-local and collides with the
	// catalog's id space. The entry only gets a catalog binding when the
	// name resolves to a real catalog item.
	for _, item := range s.items {
		if item.Name == sg.Name {
			e.LinkedCatalogID = item.ID
			break
		}
	}
	e.Photo = sg.Photo
	e.FromAssist = true
	e.State = EntryComplete
	s.entries = append(s.entries, e)
	return e
}

// deselectAssist undoes an earlier acceptance. An entry the merge created is
// removed outright; a manual entry that shared the name only loses the
// photo, never the entry itself or its result.
func (s *Section) deselectAssist(name string) {
	for _, e := range s.entries {
		if e.Label != name {
			continue
		}
		if e.FromAssist {
			s.remove(e.ID)
		} else {
			e.Photo = ""
		}
		return
	}
}
