// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// EventType names what changed in a Search
type EventType string

const (
	EventParametersChanged   EventType = "PARAMETERS_CHANGED"
	EventResultsChanged      EventType = "RESULTS_CHANGED"
	EventSelectionChanged    EventType = "SELECTION_CHANGED"
	EventActiveResultChanged EventType = "ACTIVE_RESULT_CHANGED"
	EventViewChanged         EventType = "VIEW_CHANGED"
	EventLoadingChanged      EventType = "LOADING_CHANGED"
)

// Event is delivered to subscribers after a change
type Event struct {
	Type EventType
}

// Options configure a Search
type Options struct {
	// Exclude hides records the view must never show
	Exclude ExcludeFunc
	// AutoSelectFirst opens the first result when nothing is open
	AutoSelectFirst bool
	// DefaultView is the initial presentation mode, LIST when empty
	DefaultView model.SearchView
	// PageSize overrides the default page size when positive
	PageSize int
}

// State is a copy of everything a renderer consumes
type State struct {
	Params              model.FetchParameters
	Pagination          model.PaginationState
	Loading             bool
	DynamicLoading      bool
	NextDynamicPageSize int
	HasMore             bool
	Results             []Result
	ActiveResult        model.Record
	ActiveState         ActiveState
	ActiveLoading       bool
	View                model.SearchView
	Renderer            model.Renderer
}

// Search is one independent search: its parameters, results, active
// result and view mode. Separate searches share nothing.
type Search struct {
	opts    Options
	results *ResultSet
	fetcher *PagedFetcher
	dynamic *DynamicFetcher
	active  *ActiveResultController

	mu          sync.Mutex
	view        model.SearchView
	navigator   *NavigationSynchronizer
	subscribers map[int]func(Event)
	nextID      int
}

// NewSearch creates a search running against searcher
func NewSearch(searcher port.RecordSearcher, opts Options) *Search {
	s := &Search{
		opts:        opts,
		view:        model.SearchViewList,
		subscribers: make(map[int]func(Event)),
	}
	if opts.DefaultView != "" {
		s.view = opts.DefaultView
	}

	s.results = NewResultSet(opts.Exclude)
	s.fetcher = NewPagedFetcher(searcher, s.results)
	if opts.PageSize > 0 {
		s.fetcher.params.PageSize = opts.PageSize
	}
	s.dynamic = NewDynamicFetcher(s.fetcher)
	s.active = NewActiveResultController(searcher, s.results, func(model.Record) {
		s.emit(EventActiveResultChanged)
	})

	s.fetcher.OnLoadingChange(func(bool) { s.emit(EventLoadingChanged) })
	s.dynamic.OnLoadingChange(func(bool) { s.emit(EventLoadingChanged) })
	return s
}

func (s *Search) attachNavigator(n *NavigationSynchronizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigator = n
}

func (s *Search) nav() *NavigationSynchronizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigator
}

// Subscribe registers fn for change events and returns the func that
// removes it. Callbacks run outside every lock.
func (s *Search) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Search) emit(t EventType) {
	s.mu.Lock()
	subscribers := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(Event{Type: t})
	}
}

// PerformSearch runs a fresh search for params, through the navigator when
// one is attached
func (s *Search) PerformSearch(ctx context.Context, params model.FetchParameters) error {
	if n := s.nav(); n != nil {
		return n.ApplyParams(ctx, params)
	}
	return s.performSearch(ctx, params)
}

func (s *Search) performSearch(ctx context.Context, params model.FetchParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}

	previous := s.fetcher.Params()
	if previous.ParentGlobalID != params.ParentGlobalID {
		s.active.Clear()
	}

	errSearch := s.fetcher.PerformSearch(ctx, params)
	if previous != params {
		s.emit(EventParametersChanged)
	}
	if errSearch != nil {
		return errSearch
	}

	s.dynamic.Reset(params.PageNumber+1, params.PageSize)
	s.emit(EventResultsChanged)

	if s.opts.AutoSelectFirst && s.active.Current() == nil {
		if _, err := s.active.SetActiveResult(ctx, RecordRef{}); errors.IgnoreCancelled(err) != nil {
			slog.WarnContext(ctx, "selecting first result failed", "error", err)
		}
	}
	return nil
}

// DynamicSearch loads the next page of the current search
func (s *Search) DynamicSearch(ctx context.Context) error {
	if err := s.dynamic.DynamicSearch(ctx); err != nil {
		return err
	}
	s.emit(EventResultsChanged)
	return nil
}

// Rescope starts an empty incremental listing for params, for views that
// load their contents with DynamicSearch
func (s *Search) Rescope(ctx context.Context, params model.FetchParameters) error {
	previous := s.fetcher.Params()
	if err := s.fetcher.Rescope(ctx, params); err != nil {
		return err
	}
	if previous.ParentGlobalID != params.ParentGlobalID {
		s.active.Clear()
	}
	s.dynamic.Reset(0, params.PageSize)
	if previous != params {
		s.emit(EventParametersChanged)
	}
	s.emit(EventResultsChanged)
	return nil
}

// SetPage moves to page n of the current search
func (s *Search) SetPage(ctx context.Context, page int) error {
	if n := s.nav(); n != nil {
		return n.SetPage(ctx, page)
	}
	return s.performSearch(ctx, s.Params().WithPageNumber(page))
}

// SetPageSize changes the page size, keeping the first record of the
// current page visible
func (s *Search) SetPageSize(ctx context.Context, pageSize int) error {
	if n := s.nav(); n != nil {
		return n.SetPageSize(ctx, pageSize)
	}
	return s.performSearch(ctx, s.Params().WithPageSize(pageSize))
}

// SetSearchView switches the presentation mode; nothing is fetched
func (s *Search) SetSearchView(view model.SearchView) error {
	if _, ok := model.ParseSearchView(string(view)); !ok {
		return errors.NewValidation(fmt.Sprintf("unknown search view %q", view))
	}

	s.mu.Lock()
	changed := s.view != view
	s.view = view
	s.mu.Unlock()

	if changed {
		s.emit(EventViewChanged)
	}
	return nil
}

// SetActiveResult opens the record named by ref
func (s *Search) SetActiveResult(ctx context.Context, ref RecordRef) (model.Record, error) {
	return s.active.SetActiveResult(ctx, ref)
}

// ClearActiveResult closes the detail panel
func (s *Search) ClearActiveResult() {
	s.active.Clear()
}

// ToggleSelected flips the selection of one result
func (s *Search) ToggleSelected(gid model.GlobalID) (bool, error) {
	selected, err := s.results.ToggleSelected(gid)
	if err != nil {
		return false, err
	}
	s.emit(EventSelectionChanged)
	return selected, nil
}

// SetAllSelected selects or deselects every visible result
func (s *Search) SetAllSelected(selected bool) {
	s.results.SetAllSelected(selected)
	s.emit(EventSelectionChanged)
}

// Cancel stops waiting for the pending search and record resolution
func (s *Search) Cancel() {
	s.fetcher.Cancel()
	s.active.Cancel()
}

func (s *Search) Params() model.FetchParameters {
	return s.fetcher.Params()
}

func (s *Search) Fetcher() *PagedFetcher {
	return s.fetcher
}

func (s *Search) DynamicFetcher() *DynamicFetcher {
	return s.dynamic
}

func (s *Search) Results() *ResultSet {
	return s.results
}

func (s *Search) ActiveResult() model.Record {
	return s.active.Current()
}

func (s *Search) View() model.SearchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Renderer picks the renderer for the current state
func (s *Search) Renderer() model.Renderer {
	return Dispatch(s.View(), s.results.FilteredLen(), s.fetcher.Loading(), s.fetcher.ParentGlobalID())
}

// Snapshot copies the current state
func (s *Search) Snapshot() State {
	params := s.fetcher.Params()
	loading := s.fetcher.Loading()
	results := s.results.Filtered()
	view := s.View()

	return State{
		Params:              params,
		Pagination:          s.fetcher.Pagination(),
		Loading:             loading,
		DynamicLoading:      s.dynamic.Loading(),
		NextDynamicPageSize: s.dynamic.NextDynamicPageSize(),
		HasMore:             s.dynamic.HasMore(),
		Results:             results,
		ActiveResult:        s.active.Current(),
		ActiveState:         s.active.State(),
		ActiveLoading:       s.active.Loading(),
		View:                view,
		Renderer:            Dispatch(view, len(results), loading, params.ParentGlobalID),
	}
}
