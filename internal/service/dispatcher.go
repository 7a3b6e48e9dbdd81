// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import "github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"

// Dispatch picks the renderer for the current state. The order of the
// checks decides which empty state the user sees: image and grid views
// always render themselves, and an empty container takes precedence over
// the generic empty result.
func Dispatch(view model.SearchView, filteredCount int, loading bool, parent model.GlobalID) model.Renderer {
	switch view {
	case model.SearchViewImage:
		return model.RendererImage
	case model.SearchViewGrid:
		return model.RendererGrid
	}

	if filteredCount == 0 && !loading {
		if !parent.IsZero() {
			return model.RendererEmptyContainer
		}
		return model.RendererNoResults
	}

	switch view {
	case model.SearchViewTree:
		return model.RendererTree
	case model.SearchViewCard:
		return model.RendererCard
	}
	return model.RendererList
}
