// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// SavedSearches keeps named search parameters in local storage under a
// single key, as a JSON array
type SavedSearches struct {
	store port.KeyValueStore
	mu    sync.Mutex
}

// NewSavedSearches creates the saved searches over store
func NewSavedSearches(store port.KeyValueStore) *SavedSearches {
	return &SavedSearches{store: store}
}

// List loads the saved searches, upgrading entries written in older shapes
func (s *SavedSearches) List(ctx context.Context) ([]model.SavedSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save stores params under name, replacing a saved search of the same name
func (s *SavedSearches) Save(ctx context.Context, name string, params model.FetchParameters) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidation("saved search name is required")
	}
	if err := params.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load(ctx)
	if err != nil {
		return err
	}

	entry := model.SavedSearch{Name: name, Params: params.WithPageNumber(0)}
	replaced := false
	for i := range saved {
		if saved[i].Name == name {
			saved[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		saved = append(saved, entry)
	}

	slog.DebugContext(ctx, "saving search", "name", name, "replaced", replaced)
	return s.write(ctx, saved)
}

// Delete removes the saved search called name
func (s *SavedSearches) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := saved[:0]
	for _, entry := range saved {
		if entry.Name != name {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(saved) {
		return errors.NewNotFound(fmt.Sprintf("saved search %q not found", name))
	}

	slog.DebugContext(ctx, "deleting saved search", "name", name)
	return s.write(ctx, kept)
}

func (s *SavedSearches) load(ctx context.Context) ([]model.SavedSearch, error) {
	data, ok, err := s.store.Get(ctx, constants.SavedSearchesKey)
	if err != nil {
		return nil, errors.NewServiceUnavailable("reading saved searches failed", err)
	}
	if !ok || len(data) == 0 {
		return []model.SavedSearch{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.WarnContext(ctx, "saved searches are not a JSON array, starting over", "error", err)
		return []model.SavedSearch{}, nil
	}

	return normalizeSavedSearches(ctx, raw), nil
}

// normalizeSavedSearches upgrades stored entries: a missing name is taken
// from the query, then generated; parameters go through the query string
// rules; later entries with a name already seen are dropped
func normalizeSavedSearches(ctx context.Context, raw []json.RawMessage) []model.SavedSearch {
	saved := make([]model.SavedSearch, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, item := range raw {
		var doc model.SavedSearchDocument
		if err := json.Unmarshal(item, &doc); err != nil {
			slog.WarnContext(ctx, "skipping unreadable saved search", "index", i, "error", err)
			continue
		}

		name := strings.TrimSpace(doc.Name)
		if name == "" {
			name = strings.TrimSpace(doc.Query)
		}
		if name == "" {
			name = fmt.Sprintf("Search %d", i+1)
		}
		if seen[name] {
			slog.DebugContext(ctx, "dropping duplicate saved search", "name", name)
			continue
		}
		seen[name] = true

		saved = append(saved, model.SavedSearch{Name: name, Params: doc.Params()})
	}
	return saved
}

func (s *SavedSearches) write(ctx context.Context, saved []model.SavedSearch) error {
	docs := make([]model.SavedSearchDocument, 0, len(saved))
	for _, entry := range saved {
		docs = append(docs, entry.Document())
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return errors.NewUnexpected("encoding saved searches failed", err)
	}
	if err := s.store.Set(ctx, constants.SavedSearchesKey, data); err != nil {
		return errors.NewServiceUnavailable("writing saved searches failed", err)
	}
	return nil
}
