// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// Result is a record of the result set with its selection flag
type Result struct {
	Record   model.Record
	Selected bool
}

// ExcludeFunc reports whether a record must be hidden from the current view
type ExcludeFunc func(model.Record) bool

// ResultSet holds the records of a search in server order. A global id
// never appears twice. It is safe for concurrent use.
type ResultSet struct {
	mu      sync.RWMutex
	results []Result
	index   map[model.GlobalID]int
	exclude ExcludeFunc
}

// NewResultSet creates an empty result set. exclude may be nil.
func NewResultSet(exclude ExcludeFunc) *ResultSet {
	return &ResultSet{
		index:   make(map[model.GlobalID]int),
		exclude: exclude,
	}
}

// Replace swaps in the records of a fresh search. Duplicates inside
// records are dropped and selection survives for records still present.
func (s *ResultSet) Replace(records []model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make(map[model.GlobalID]bool, len(s.results))
	for _, r := range s.results {
		if r.Selected {
			selected[model.GlobalIDOf(r.Record)] = true
		}
	}

	s.results = make([]Result, 0, len(records))
	s.index = make(map[model.GlobalID]int, len(records))
	for _, record := range records {
		gid := model.GlobalIDOf(record)
		s.add(record, selected[gid])
	}
}

// Append adds the records of a further page, skipping global ids already
// present, and returns how many were added
func (s *ResultSet) Append(records []model.Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, record := range records {
		if s.add(record, false) {
			added++
		}
	}
	return added
}

// add must be called with the lock held
func (s *ResultSet) add(record model.Record, selected bool) bool {
	if record == nil {
		return false
	}
	gid := model.GlobalIDOf(record)
	if !gid.IsZero() {
		if _, ok := s.index[gid]; ok {
			return false
		}
		s.index[gid] = len(s.results)
	}
	s.results = append(s.results, Result{Record: record, Selected: selected})
	return true
}

// Update swaps in a newer version of a record already in the set
func (s *ResultSet) Update(record model.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[model.GlobalIDOf(record)]
	if !ok {
		return false
	}
	s.results[i].Record = record
	return true
}

// Filtered returns the results the view may show: records with a global
// id that the exclusion predicate does not hide
func (s *ResultSet) Filtered() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]Result, 0, len(s.results))
	for _, r := range s.results {
		if s.visible(r.Record) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilteredLen is len(Filtered()) without the copy
func (s *ResultSet) FilteredLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.results {
		if s.visible(r.Record) {
			n++
		}
	}
	return n
}

// First returns the first visible record, or nil
func (s *ResultSet) First() model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.results {
		if s.visible(r.Record) {
			return r.Record
		}
	}
	return nil
}

func (s *ResultSet) visible(r model.Record) bool {
	if model.GlobalIDOf(r).IsZero() {
		return false
	}
	return s.exclude == nil || !s.exclude(r)
}

// All returns every result, hidden ones included
func (s *ResultSet) All() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Result, len(s.results))
	copy(all, s.results)
	return all
}

// Get returns the result with the given global id
func (s *ResultSet) Get(gid model.GlobalID) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[gid]
	if !ok {
		return Result{}, false
	}
	return s.results[i], true
}

// ToggleSelected flips the selection of one record and returns the new value
func (s *ResultSet) ToggleSelected(gid model.GlobalID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[gid]
	if !ok {
		return false, errors.NewNotFound(fmt.Sprintf("record %s is not in the results", gid))
	}
	s.results[i].Selected = !s.results[i].Selected
	return s.results[i].Selected, nil
}

// SetAllSelected selects or deselects every visible record
func (s *ResultSet) SetAllSelected(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.results {
		if s.visible(s.results[i].Record) {
			s.results[i].Selected = selected
		}
	}
}

// Selected returns the selected records in result order
func (s *ResultSet) Selected() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var selected []model.Record
	for _, r := range s.results {
		if r.Selected {
			selected = append(selected, r.Record)
		}
	}
	return selected
}

// Len returns the number of records, hidden ones included
func (s *ResultSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
