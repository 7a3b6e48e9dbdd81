// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// DynamicFetcher loads further pages of the fetcher's current search and
// appends them to the result set, for views without page controls.
//
// It shares the fetcher's generation: a fresh search, a rescope or a Cancel
// issued while a page is loading discards that page on arrival.
type DynamicFetcher struct {
	fetcher *PagedFetcher

	mu                  sync.Mutex
	epoch               uint64
	pageNumber          int
	pageSize            int
	restart             bool
	nextDynamicPageSize int
	inFlight            int
	onLoading           func(bool)
}

// NewDynamicFetcher creates a dynamic fetcher starting at the first page
func NewDynamicFetcher(fetcher *PagedFetcher) *DynamicFetcher {
	return &DynamicFetcher{
		fetcher:             fetcher,
		pageSize:            fetcher.PageSize(),
		nextDynamicPageSize: constants.DefaultDynamicPageSize,
	}
}

// OnLoadingChange registers fn to be called, outside the lock, whenever the
// loading flag flips
func (d *DynamicFetcher) OnLoadingChange(fn func(loading bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onLoading = fn
}

// DynamicSearch fetches the next page and appends its new records.
//
// A failed fetch keeps the records already loaded and does not advance the
// page, so calling it again retries the same page.
func (d *DynamicFetcher) DynamicSearch(ctx context.Context) error {
	scope, token := d.fetcher.scope()

	d.mu.Lock()
	epoch := d.epoch
	restart := d.restart
	params := scope
	params.PageSize = d.pageSize
	params = params.WithPageNumber(d.pageNumber)
	d.mu.Unlock()

	if err := params.Validate(); err != nil {
		return err
	}
	if !params.Sendable() {
		slog.DebugContext(ctx, "empty query with no narrowing filter, nothing to load")
		return nil
	}

	d.begin()
	slog.DebugContext(ctx, "loading more results", "page", params.PageNumber, "page_size", params.PageSize)

	response, err := d.fetcher.searcher.Search(ctx, params)

	d.mu.Lock()
	f := d.fetcher
	f.mu.Lock()
	current := f.currentLocked(token) && epoch == d.epoch
	if !current {
		f.mu.Unlock()
		notify := d.finishLocked()
		d.mu.Unlock()
		notify()
		slog.DebugContext(ctx, "discarding superseded page", "page", params.PageNumber)
		return errors.NewUserCancelledAction("page load superseded")
	}
	if err != nil {
		f.mu.Unlock()
		notify := d.finishLocked()
		d.mu.Unlock()
		notify()
		slog.ErrorContext(ctx, "loading more results failed", "error", err, "page", params.PageNumber)
		return errors.NewSearchFailed("loading more results failed", err)
	}

	added := 0
	if response != nil {
		if restart {
			f.results.Replace(response.Records)
			added = f.results.Len()
		} else {
			added = f.results.Append(response.Records)
		}
		f.pagination.Count = response.Count
		f.pagination.Links = response.Links
	}
	f.mu.Unlock()

	d.epoch++
	d.restart = false
	d.pageNumber++
	d.nextDynamicPageSize = d.nextPageSizeLocked()
	notify := d.finishLocked()
	d.mu.Unlock()
	notify()

	slog.DebugContext(ctx, "appended results", "added", added, "next_page", params.PageNumber+1, "restarted", restart)
	return nil
}

func (d *DynamicFetcher) begin() {
	d.mu.Lock()
	d.inFlight++
	var notify func()
	if d.inFlight == 1 && d.onLoading != nil {
		hook := d.onLoading
		notify = func() { hook(true) }
	}
	d.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// finishLocked must be called with d.mu held; the returned func must be
// called after unlocking
func (d *DynamicFetcher) finishLocked() func() {
	d.inFlight--
	if d.inFlight == 0 && d.onLoading != nil {
		hook := d.onLoading
		return func() { hook(false) }
	}
	return func() {}
}

// nextPageSizeLocked must be called with d.mu held
func (d *DynamicFetcher) nextPageSizeLocked() int {
	return min(d.pageSize, d.remainingLocked())
}

// remainingLocked is the number of server records past the pages loaded so
// far; it must be called with d.mu held
func (d *DynamicFetcher) remainingLocked() int {
	remaining := d.fetcher.Count() - d.pageNumber*d.pageSize
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset points the fetcher at nextPage of the current search. Pages still
// loading are discarded on arrival.
func (d *DynamicFetcher) Reset(nextPage, pageSize int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.epoch++
	d.pageNumber = nextPage
	d.pageSize = pageSize
	d.restart = false
	if nextPage > 1 {
		// the result set holds a single page past the first: the listing
		// starts over from page 0 and replaces it
		d.pageNumber = 0
		d.restart = true
	}
	if d.fetcher.Count() == 0 {
		d.nextDynamicPageSize = min(pageSize, constants.DefaultDynamicPageSize)
		return
	}
	d.nextDynamicPageSize = d.nextPageSizeLocked()
}

// HasMore reports whether the server holds records past the pages loaded so far
func (d *DynamicFetcher) HasMore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.remainingLocked() > 0
}

// PageNumber returns the next page to load
func (d *DynamicFetcher) PageNumber() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pageNumber
}

// NextDynamicPageSize is the number of records the next load is expected
// to bring, for sizing loading placeholders
func (d *DynamicFetcher) NextDynamicPageSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nextDynamicPageSize
}

func (d *DynamicFetcher) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight > 0
}
