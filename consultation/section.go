package consultation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

var (
	// ErrPendingEntry is returned when a section already holds an
	// incomplete entry and another one is requested.
	ErrPendingEntry = errors.New("section already has a pending entry")

	// ErrEntryNotFound is returned when an entry id does not exist in the
	// section.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrUnknownCatalogItem is returned when a link targets an id absent
	// from the section's catalog.
	ErrUnknownCatalogItem = errors.New("unknown catalog item")

	// ErrItemAlreadySelected is returned when a link targets an item
	// already bound to another entry of the section.
	ErrItemAlreadySelected = errors.New("catalog item already selected")
)

// Section is one selection block of the consultation form. It enforces the
// single-pending-entry rule: a new line can only be opened once every
// existing line is complete.
type Section struct {
	kind    catalog.SectionKind
	items   []catalog.Item
	entries []*Entry
}

func newSection(kind catalog.SectionKind, items []catalog.Item) *Section {
	return &Section{kind: kind, items: items}
}

// Kind returns the section's identity.
func (s *Section) Kind() catalog.SectionKind { return s.kind }

// Entries returns the current entries in insertion order.
func (s *Section) Entries() []*Entry { return s.entries }

// HasPending reports whether any entry is still incomplete.
func (s *Section) HasPending() bool {
	for _, e := range s.entries {
		if e.Pending() {
			return true
		}
	}
	return false
}

// CompleteCount returns how many entries are complete.
func (s *Section) CompleteCount() int {
	n := 0
	for _, e := range s.entries {
		if !e.Pending() {
			n++
		}
	}
	return n
}

// linkedIDs returns the catalog ids already bound to an entry.
func (s *Section) linkedIDs() map[int]bool {
	ids := make(map[int]bool, len(s.entries))
	for _, e := range s.entries {
		if e.LinkedCatalogID != 0 {
			ids[e.LinkedCatalogID] = true
		}
	}
	return ids
}

// Available returns the catalog items not yet bound to any entry, in
// catalog order.
func (s *Section) Available() []catalog.Item {
	linked := s.linkedIDs()
	var out []catalog.Item
	for _, item := range s.items {
		if !linked[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// AddEntry opens a new empty entry. Only one pending entry may exist at a
// time.
func (s *Section) AddEntry() (*Entry, error) {
	if s.HasPending() {
		return nil, ErrPendingEntry
	}
	e := newEntry()
	s.entries = append(s.entries, e)
	return e, nil
}

// findEntry locates an entry by id.
func (s *Section) findEntry(id uuid.UUID) (*Entry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrEntryNotFound
}

// UpdateLabel records what the clinician typed and returns the matching
// catalog items for the autocomplete dropdown. Editing the label of a linked
// entry whose text no longer equals the item name drops the link and its
// copied attributes, which reopens the entry; such an edit is refused with
// ErrPendingEntry while another entry is still pending, otherwise the section
// would hold two incomplete lines at once.
func (s *Section) UpdateLabel(id uuid.UUID, label string) ([]catalog.Item, error) {
	e, err := s.findEntry(id)
	if err != nil {
		return nil, err
	}

	if e.LinkedCatalogID != 0 {
		linkedName := ""
		for _, item := range s.items {
			if item.ID == e.LinkedCatalogID {
				linkedName = item.Name
				break
			}
		}
		if label != linkedName {
			for _, other := range s.entries {
				if other.ID != e.ID && other.Pending() {
					return nil, ErrPendingEntry
				}
			}
			e.unlink()
		}
	}
	e.Label = label

	exclude := s.linkedIDs()
	delete(exclude, e.LinkedCatalogID)
	return Match(label, exclude, s.items), nil
}

// Link binds an entry to a catalog item, typically when the clinician picks
// a suggestion from the dropdown.
func (s *Section) Link(id uuid.UUID, catalogID int) error {
	e, err := s.findEntry(id)
	if err != nil {
		return err
	}

	var target *catalog.Item
	for i := range s.items {
		if s.items[i].ID == catalogID {
			target = &s.items[i]
			break
		}
	}
	if target == nil {
		return ErrUnknownCatalogItem
	}

	for _, other := range s.entries {
		if other.ID != e.ID && other.LinkedCatalogID == catalogID {
			return ErrItemAlreadySelected
		}
	}

	e.link(*target)
	return nil
}

// SetDetail answers one detail of a linked entry. The value must be one of
// the options declared by the catalog.
func (s *Section) SetDetail(id uuid.UUID, detailName, value string) error {
	e, err := s.findEntry(id)
	if err != nil {
		return err
	}

	for i := range e.Details {
		if e.Details[i].Spec.Name != detailName {
			continue
		}
		for _, opt := range e.Details[i].Spec.Options {
			if opt == value {
				e.Details[i].Value = value
				e.refreshState()
				return nil
			}
		}
		return fmt.Errorf("value %q is not an option of detail %q", value, detailName)
	}

	return fmt.Errorf("entry has no detail named %q", detailName)
}

// SetResult captures an analysis result on a linked entry.
func (s *Section) SetResult(id uuid.UUID, value string) error {
	e, err := s.findEntry(id)
	if err != nil {
		return err
	}

	if e.LinkedCatalogID == 0 {
		return fmt.Errorf("entry is not linked to a catalog item")
	}
	if e.ResultKind == "" {
		return fmt.Errorf("entry does not expect a result")
	}

	e.ResultValue = value
	e.refreshState()
	return nil
}

// Blur handles the entry losing focus. A pending entry is discarded rather
// than left dangling; a complete entry stays.
func (s *Section) Blur(id uuid.UUID) (removed bool, err error) {
	e, err := s.findEntry(id)
	if err != nil {
		return false, err
	}

	if e.Pending() {
		s.remove(e.ID)
		return true, nil
	}
	return false, nil
}

// RemoveEntry deletes an entry, releasing its catalog item back to the
// dropdown.
func (s *Section) RemoveEntry(id uuid.UUID) error {
	if _, err := s.findEntry(id); err != nil {
		return err
	}
	s.remove(id)
	return nil
}

func (s *Section) remove(id uuid.UUID) {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// snapshot returns the wire form of every complete entry.
func (s *Section) snapshot() []SnapshotEntry {
	var out []SnapshotEntry
	for _, e := range s.entries {
		if !e.Pending() {
			out = append(out, e.snapshot())
		}
	}
	return out
}
