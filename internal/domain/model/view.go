// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "strings"

// SearchView is the presentation mode of a search
type SearchView string

const (
	SearchViewList  SearchView = "LIST"
	SearchViewTree  SearchView = "TREE"
	SearchViewCard  SearchView = "CARD"
	SearchViewGrid  SearchView = "GRID"
	SearchViewImage SearchView = "IMAGE"
)

// ParseSearchView accepts any letter case
func ParseSearchView(s string) (SearchView, bool) {
	v := SearchView(strings.ToUpper(s))
	switch v {
	case SearchViewList, SearchViewTree, SearchViewCard, SearchViewGrid, SearchViewImage:
		return v, true
	}
	return "", false
}

// Renderer names the component that consumes the result set
type Renderer string

const (
	RendererImage          Renderer = "IMAGE"
	RendererGrid           Renderer = "GRID"
	RendererEmptyContainer Renderer = "EMPTY_CONTAINER"
	RendererNoResults      Renderer = "NO_RESULTS"
	RendererList           Renderer = "LIST"
	RendererTree           Renderer = "TREE"
	RendererCard           Renderer = "CARD"
)
