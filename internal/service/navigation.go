// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// Router changes the address the user sees
type Router interface {
	Navigate(ctx context.Context, location string) error
}

// NavigationSynchronizer keeps the search parameters, the router location
// and the fetch cycle consistent.
//
// Inbound locations always run the search and never navigate. Outbound
// navigation to the search path runs the search first and then calls the
// router once, unless the router is already at that location.
type NavigationSynchronizer struct {
	search   *Search
	router   Router
	basePath string

	mu           sync.Mutex
	lastLocation string
}

// NewNavigationSynchronizer attaches a synchronizer to search. From then on
// the parameter mutators of search go through it.
func NewNavigationSynchronizer(search *Search, router Router) *NavigationSynchronizer {
	n := &NavigationSynchronizer{
		search:   search,
		router:   router,
		basePath: constants.SearchPath,
	}
	search.attachNavigator(n)
	return n
}

// HandleLocation applies a location the router arrived at on its own
// (address bar, back, forward). The search always runs, even when the
// parameters did not change, so the results reflect changes made elsewhere.
func (n *NavigationSynchronizer) HandleLocation(ctx context.Context, rawQuery string) error {
	params, err := model.ParseFetchParameters(rawQuery)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.lastLocation = params.Location(n.basePath)
	n.mu.Unlock()

	slog.DebugContext(ctx, "handling inbound location", "location", params.Location(n.basePath))
	return n.search.performSearch(ctx, params)
}

// Navigate intercepts an in-app navigation. Locations outside the search
// path pass straight to the router.
func (n *NavigationSynchronizer) Navigate(ctx context.Context, location string) error {
	path, rawQuery, err := model.SplitLocation(location)
	if err != nil {
		return err
	}
	if path != n.basePath {
		return n.router.Navigate(ctx, location)
	}

	params, err := model.ParseFetchParameters(rawQuery)
	if err != nil {
		return err
	}
	return n.navigate(ctx, params)
}

// ApplyParams navigates to the location of params
func (n *NavigationSynchronizer) ApplyParams(ctx context.Context, params model.FetchParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return n.navigate(ctx, params)
}

func (n *NavigationSynchronizer) navigate(ctx context.Context, params model.FetchParameters) error {
	location := params.Location(n.basePath)

	errSearch := n.search.performSearch(ctx, params)
	if errSearch != nil {
		var invalid errors.InvalidFetchParameters
		if errors.IsUserCancelled(errSearch) || stderrors.As(errSearch, &invalid) {
			// superseded or rejected: the router stays where it is
			return errSearch
		}
	}

	n.mu.Lock()
	redundant := location == n.lastLocation
	n.lastLocation = location
	n.mu.Unlock()

	if redundant {
		slog.DebugContext(ctx, "router already at location", "location", location)
		return errSearch
	}
	if errNavigate := n.router.Navigate(ctx, location); errNavigate != nil {
		slog.ErrorContext(ctx, "router navigation failed", "error", errNavigate, "location", location)
		if errSearch == nil {
			return errNavigate
		}
	}
	return errSearch
}

// Location returns the last location the router was sent to or arrived at
func (n *NavigationSynchronizer) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastLocation
}

func (n *NavigationSynchronizer) current() model.FetchParameters {
	return n.search.Params()
}

func (n *NavigationSynchronizer) SetQuery(ctx context.Context, query string) error {
	return n.ApplyParams(ctx, n.current().WithQuery(query))
}

func (n *NavigationSynchronizer) SetResultType(ctx context.Context, resultType model.ResultType) error {
	return n.ApplyParams(ctx, n.current().WithResultType(resultType))
}

func (n *NavigationSynchronizer) SetOwnedBy(ctx context.Context, owner string) error {
	return n.ApplyParams(ctx, n.current().WithOwnedBy(owner))
}

func (n *NavigationSynchronizer) SetParentGlobalID(ctx context.Context, parent model.GlobalID) error {
	return n.ApplyParams(ctx, n.current().WithParentGlobalID(parent))
}

func (n *NavigationSynchronizer) SetPage(ctx context.Context, page int) error {
	return n.ApplyParams(ctx, n.current().WithPageNumber(page))
}

func (n *NavigationSynchronizer) SetPageSize(ctx context.Context, pageSize int) error {
	return n.ApplyParams(ctx, n.current().WithPageSize(pageSize))
}

func (n *NavigationSynchronizer) SetOrder(ctx context.Context, by model.OrderBy, direction model.SortDirection) error {
	return n.ApplyParams(ctx, n.current().WithOrder(by, direction))
}

func (n *NavigationSynchronizer) SetDeletedItems(ctx context.Context, deleted model.DeletedItems) error {
	return n.ApplyParams(ctx, n.current().WithDeletedItems(deleted))
}
