// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// MockRecordSearcher is an in-memory inventory implementing RecordSearcher.
// Search returns summaries; GetRecord returns full records.
type MockRecordSearcher struct {
	mu             sync.RWMutex
	records        []model.Record
	searchError    error
	getRecordError error
	isReadyError   error
	searchCalls    int
}

// NewMockRecordSearcher creates a mock searcher with a small lab inventory
func NewMockRecordSearcher() *MockRecordSearcher {
	day := func(d int) time.Time {
		return time.Date(2024, time.January, d, 9, 0, 0, 0, time.UTC)
	}
	base := func(gid model.GlobalID, name, owner string, parent model.GlobalID, created int) model.RecordBase {
		return model.RecordBase{
			GlobalID:       gid,
			Name:           name,
			Owner:          owner,
			ParentGlobalID: parent,
			Created:        day(created),
			Modified:       day(created + 1),
		}
	}

	return &MockRecordSearcher{
		records: []model.Record{
			&model.Container{RecordBase: base("BE1", "alice's bench", "alice", "", 1), ContainerType: model.ContainerTypeWorkbench, ContentCount: 2},
			&model.Container{RecordBase: base("IC1", "Empty shelf", "alice", "BE1", 2), ContainerType: model.ContainerTypeList},
			&model.Container{RecordBase: base("IC2", "Freezer -80", "alice", "BE1", 3), ContainerType: model.ContainerTypeGrid, ContentCount: 3},
			&model.Template{RecordBase: base("IT1", "Solvent", "alice", "", 4), Version: 2},
			&model.Sample{RecordBase: base("SA1", "Acetone", "alice", "", 5), TemplateGlobalID: "IT1", SubSampleCount: 2},
			&model.SubSample{RecordBase: base("SS1", "Acetone.01", "alice", "IC2", 5), SampleGlobalID: "SA1", Quantity: "500 ml"},
			&model.SubSample{RecordBase: base("SS2", "Acetone.02", "alice", "IC2", 5), SampleGlobalID: "SA1", Quantity: "250 ml"},
			&model.Sample{RecordBase: base("SA2", "Ethanol", "bob", "", 6), TemplateGlobalID: "IT1", SubSampleCount: 1},
			&model.SubSample{RecordBase: base("SS3", "Ethanol.01", "bob", "IC2", 6), SampleGlobalID: "SA2", Quantity: "1 l"},
			&model.Sample{RecordBase: model.RecordBase{GlobalID: "SA3", Name: "Old buffer", Owner: "bob", Deleted: true, Created: day(7), Modified: day(8)}},
		},
	}
}

// Search implements RecordSearcher with in-memory filtering, sorting and paging
func (m *MockRecordSearcher) Search(ctx context.Context, params model.FetchParameters) (*model.SearchResponse, error) {
	slog.DebugContext(ctx, "executing mock search", "query", params.Query, "result_type", params.ResultType)

	m.mu.Lock()
	m.searchCalls++
	searchError := m.searchError
	matched := make([]model.Record, 0, len(m.records))
	for _, record := range m.records {
		if matches(record, params) {
			matched = append(matched, record)
		}
	}
	m.mu.Unlock()

	if searchError != nil {
		return nil, searchError
	}

	sortRecords(matched, params.OrderBy, params.Order)

	page := []model.Record{}
	if offset := params.Offset(); offset < len(matched) {
		end := min(offset+params.PageSize, len(matched))
		for _, record := range matched[offset:end] {
			page = append(page, model.AsSummary(record))
		}
	}

	response := &model.SearchResponse{
		Records: page,
		Count:   len(matched),
		Links:   model.NewLinks(params, len(matched), locate),
	}

	slog.DebugContext(ctx, "mock search completed", "results_count", len(page), "count", response.Count)
	return response, nil
}

func locate(p model.FetchParameters) string {
	return p.Location(constants.SearchPath)
}

func matches(record model.Record, params model.FetchParameters) bool {
	base := record.Base()
	if !params.ResultType.Matches(record.Type()) {
		return false
	}
	if !params.DeletedItems.Matches(base.Deleted) {
		return false
	}
	if params.OwnedBy != "" && base.Owner != params.OwnedBy {
		return false
	}
	if !params.ParentGlobalID.IsZero() && base.ParentGlobalID != params.ParentGlobalID {
		return false
	}
	if params.Query != "" {
		q := strings.ToLower(params.Query)
		if !strings.Contains(strings.ToLower(base.Name), q) && !strings.EqualFold(string(base.GlobalID), params.Query) {
			return false
		}
	}
	return true
}

func sortRecords(records []model.Record, by model.OrderBy, direction model.SortDirection) {
	less := func(a, b model.RecordBase) bool {
		switch by {
		case model.OrderByGlobalID:
			if a.GlobalID.Prefix() != b.GlobalID.Prefix() {
				return a.GlobalID.Prefix() < b.GlobalID.Prefix()
			}
			return a.GlobalID.ID() < b.GlobalID.ID()
		case model.OrderByCreationDate:
			return a.Created.Before(b.Created)
		case model.OrderByModificationDate:
			return a.Modified.Before(b.Modified)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Base(), records[j].Base()
		if direction == model.SortDescending {
			return less(b, a)
		}
		return less(a, b)
	})
}

// GetRecord implements RecordSearcher
func (m *MockRecordSearcher) GetRecord(ctx context.Context, globalID model.GlobalID) (model.Record, error) {
	slog.DebugContext(ctx, "executing mock record lookup", "global_id", globalID)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getRecordError != nil {
		return nil, m.getRecordError
	}
	for _, record := range m.records {
		if model.GlobalIDOf(record) == globalID {
			return model.WithDetails(record), nil
		}
	}
	return nil, errors.NewNotFound(fmt.Sprintf("record %s not found", globalID))
}

// IsReady implements the RecordSearcher interface (always ready for mock)
func (m *MockRecordSearcher) IsReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isReadyError
}

// AddRecord adds a record to the mock data (useful for testing)
func (m *MockRecordSearcher) AddRecord(record model.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
}

// ClearRecords clears all records (useful for testing)
func (m *MockRecordSearcher) ClearRecords() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = []model.Record{}
}

// GetRecordCount returns the total number of records
func (m *MockRecordSearcher) GetRecordCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// SearchCalls returns how many times Search was called
func (m *MockRecordSearcher) SearchCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchCalls
}

// Test helper methods for setting up mock responses

// SetSearchError sets the mock error for Search calls
func (m *MockRecordSearcher) SetSearchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchError = err
}

// SetGetRecordError sets the mock error for GetRecord calls
func (m *MockRecordSearcher) SetGetRecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getRecordError = err
}

// SetIsReadyError sets the mock error for IsReady calls
func (m *MockRecordSearcher) SetIsReadyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isReadyError = err
}

// NewSamples builds n samples named "<prefix> <i>" owned by owner, with
// global ids starting at first
func NewSamples(prefix, owner string, first, n int) []model.Record {
	records := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		id := int64(first + i)
		records = append(records, &model.Sample{
			RecordBase: model.RecordBase{
				GlobalID: model.NewGlobalID(model.RecordTypeSample, id),
				Name:     fmt.Sprintf("%s %03d", prefix, first+i),
				Owner:    owner,
			},
		})
	}
	return records
}
