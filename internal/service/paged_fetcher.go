// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// PagedFetcher runs page searches against the record searcher and applies
// the response of the most recently issued one to the result set.
// Responses to superseded searches are discarded on arrival.
type PagedFetcher struct {
	searcher port.RecordSearcher
	results  *ResultSet

	mu         sync.Mutex
	issued     uint64
	replaced   uint64
	params     model.FetchParameters
	pagination model.PaginationState
	loading    bool
	onLoading  func(bool)
}

// NewPagedFetcher creates a fetcher writing into results
func NewPagedFetcher(searcher port.RecordSearcher, results *ResultSet) *PagedFetcher {
	return &PagedFetcher{
		searcher: searcher,
		results:  results,
		params:   model.DefaultFetchParameters(),
	}
}

// OnLoadingChange registers fn to be called, outside the lock, whenever the
// loading flag flips
func (f *PagedFetcher) OnLoadingChange(fn func(loading bool)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onLoading = fn
}

// PerformSearch replaces the result set with the page described by params.
//
// It returns InvalidFetchParameters without touching any state when params
// break the parameter contract, SearchFailed when the searcher rejects the
// request and UserCancelledAction when a newer search was issued (or Cancel
// was called) before the response arrived.
func (f *PagedFetcher) PerformSearch(ctx context.Context, params model.FetchParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}

	gen, send := f.begin(params)
	if !send {
		slog.DebugContext(ctx, "empty query with no narrowing filter, search not sent")
		return nil
	}

	slog.DebugContext(ctx, "searching",
		"query", params.Query,
		"result_type", params.ResultType,
		"parent", params.ParentGlobalID,
		"page", params.PageNumber,
		"page_size", params.PageSize,
	)

	response, err := f.searcher.Search(ctx, params)

	f.mu.Lock()
	if gen != f.issued {
		f.mu.Unlock()
		slog.DebugContext(ctx, "discarding response of superseded search", "generation", gen)
		return errors.NewUserCancelledAction("search superseded by a newer one")
	}
	if err != nil {
		notify := f.setLoading(false)
		f.mu.Unlock()
		notify()
		slog.ErrorContext(ctx, "search failed", "error", err)
		return errors.NewSearchFailed("search request failed", err)
	}
	if response == nil {
		response = &model.SearchResponse{}
	}
	f.results.Replace(response.Records)
	f.replaced++
	f.pagination = model.PaginationState{Count: response.Count, Links: response.Links}
	notify := f.setLoading(false)
	f.mu.Unlock()
	notify()

	slog.DebugContext(ctx, "search applied", "count", response.Count, "records", len(response.Records))
	return nil
}

// begin records params as the current search and issues a new generation.
// send is false for a search that must not reach the searcher.
func (f *PagedFetcher) begin(params model.FetchParameters) (gen uint64, send bool) {
	f.mu.Lock()
	f.issued++
	gen = f.issued
	f.params = params
	send = params.Sendable()
	notify := f.setLoading(send)
	f.mu.Unlock()
	notify()
	return gen, send
}

// setLoading must be called with the lock held; the returned func fires the
// hook and must be called after unlocking
func (f *PagedFetcher) setLoading(loading bool) func() {
	if f.loading == loading || f.onLoading == nil {
		f.loading = loading
		return func() {}
	}
	f.loading = loading
	hook := f.onLoading
	return func() { hook(loading) }
}

// Cancel stops waiting for the pending search. Its response is discarded
// when it arrives and loading clears immediately.
func (f *PagedFetcher) Cancel() {
	f.mu.Lock()
	f.issued++
	notify := f.setLoading(false)
	f.mu.Unlock()
	notify()
}

// Rescope starts an empty listing for params without fetching anything.
// Pending searches are superseded and the pagination state is reset; the
// dynamic fetcher then loads the listing page by page.
func (f *PagedFetcher) Rescope(ctx context.Context, params model.FetchParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	f.issued++
	f.params = params
	f.results.Replace(nil)
	f.replaced++
	f.pagination = model.PaginationState{}
	notify := f.setLoading(false)
	f.mu.Unlock()
	notify()

	slog.DebugContext(ctx, "search rescoped", "parent", params.ParentGlobalID, "result_type", params.ResultType)
	return nil
}

// fetchToken identifies the result set a dynamic fetch was started against
type fetchToken struct {
	issued   uint64
	replaced uint64
}

// scope returns the current parameters and the token a dynamic fetch must
// still match when its response arrives
func (f *PagedFetcher) scope() (model.FetchParameters, fetchToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params, fetchToken{issued: f.issued, replaced: f.replaced}
}

// currentLocked must be called with the lock held
func (f *PagedFetcher) currentLocked(token fetchToken) bool {
	return token.issued == f.issued && token.replaced == f.replaced
}

// Params returns the parameters of the most recent search
func (f *PagedFetcher) Params() model.FetchParameters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params
}

func (f *PagedFetcher) PageNumber() int {
	return f.Params().PageNumber
}

func (f *PagedFetcher) PageSize() int {
	return f.Params().PageSize
}

func (f *PagedFetcher) ParentGlobalID() model.GlobalID {
	return f.Params().ParentGlobalID
}

// Pagination returns the state of the last applied response
func (f *PagedFetcher) Pagination() model.PaginationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pagination
}

func (f *PagedFetcher) Count() int {
	return f.Pagination().Count
}

func (f *PagedFetcher) Links() model.Links {
	return f.Pagination().Links
}

func (f *PagedFetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Results returns the result set the fetcher writes into
func (f *PagedFetcher) Results() *ResultSet {
	return f.results
}
