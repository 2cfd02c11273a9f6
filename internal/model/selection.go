package model

import (
	"encoding/json"
	"slices"
)

// FilterSelection is the set of category ids a user has chosen.
// Ids are unique; IDs reports them in insertion order.
type FilterSelection struct {
	ids []string
}

// NewFilterSelection builds a selection, dropping duplicates and empty ids.
func NewFilterSelection(ids ...string) FilterSelection {
	var s FilterSelection
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id if it is not already selected.
func (s *FilterSelection) Add(id string) {
	if id == "" || s.Contains(id) {
		return
	}
	s.ids = append(s.ids, id)
}

// Remove deletes id from the selection.
func (s *FilterSelection) Remove(id string) {
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool { return v == id })
}

// Toggle selects id when absent and deselects it when present.
// It reports whether id is selected afterwards.
func (s *FilterSelection) Toggle(id string) bool {
	if s.Contains(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return s.Contains(id)
}

// Clear empties the selection.
func (s *FilterSelection) Clear() {
	s.ids = nil
}

// Contains reports whether id is selected.
func (s FilterSelection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns a copy of the selected ids.
func (s FilterSelection) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of selected ids.
func (s FilterSelection) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected.
func (s FilterSelection) IsEmpty() bool {
	return len(s.ids) == 0
}

// MarshalJSON encodes the selection as a JSON array of strings.
func (s FilterSelection) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

// UnmarshalJSON decodes a JSON array of strings, deduplicating it.
func (s *FilterSelection) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewFilterSelection(ids...)
	return nil
}
