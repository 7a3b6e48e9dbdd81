// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// SavedSearchesKey is the fixed local storage key holding the saved searches
const SavedSearchesKey = "inventorySavedSearches"
