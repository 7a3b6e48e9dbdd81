// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (

	// DefaultPageSize is the default number of results per page for searches
	DefaultPageSize = 10

	// DefaultDynamicPageSize is the number of placeholder rows shown before the
	// first incremental page arrives
	DefaultDynamicPageSize = 10

	// MaxPageSize bounds the page size accepted from a query string
	MaxPageSize = 1000

	// SearchPath is the in-app path whose query string carries the search parameters
	SearchPath = "/inventory/search"
)
