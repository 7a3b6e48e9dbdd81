// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"net/url"
	"strconv"
)

// SavedSearch is a named set of search parameters kept in local storage
type SavedSearch struct {
	Name   string
	Params FetchParameters
}

// SavedSearchDocument is the stored JSON shape of a saved search.
// Owner is the key older clients wrote before ownedBy existed.
type SavedSearchDocument struct {
	Name           string `json:"name,omitempty"`
	Query          string `json:"query,omitempty"`
	ResultType     string `json:"resultType,omitempty"`
	OwnedBy        string `json:"ownedBy,omitempty"`
	Owner          string `json:"owner,omitempty"`
	ParentGlobalID string `json:"parentGlobalId,omitempty"`
	DeletedItems   string `json:"deletedItems,omitempty"`
	OrderBy        string `json:"orderBy,omitempty"`
	Order          string `json:"order,omitempty"`
	PageSize       int    `json:"pageSize,omitempty"`
}

// Document returns the current stored shape of s. The page number is not
// kept: a saved search always opens on its first page.
func (s SavedSearch) Document() SavedSearchDocument {
	return SavedSearchDocument{
		Name:           s.Name,
		Query:          s.Params.Query,
		ResultType:     string(s.Params.ResultType),
		OwnedBy:        s.Params.OwnedBy,
		ParentGlobalID: string(s.Params.ParentGlobalID),
		DeletedItems:   string(s.Params.DeletedItems),
		OrderBy:        string(s.Params.OrderBy),
		Order:          string(s.Params.Order),
		PageSize:       s.Params.PageSize,
	}
}

// Params converts the stored fields into search parameters. Values older
// clients wrote in another shape are upgraded and unusable ones take the
// defaults, the same way a URL query string is read.
func (d SavedSearchDocument) Params() FetchParameters {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	set(keyQuery, d.Query)
	set(keyResultType, d.ResultType)
	set(keyOwnedBy, d.OwnedBy)
	if d.OwnedBy == "" {
		set(keyOwnedBy, d.Owner)
	}
	set(keyParentGlobalID, d.ParentGlobalID)
	set(keyDeletedItems, d.DeletedItems)
	set(keyOrderBy, d.OrderBy)
	set(keyOrder, d.Order)
	if d.PageSize > 0 {
		set(keyPageSize, strconv.Itoa(d.PageSize))
	}

	params, err := ParseFetchParameters(values.Encode())
	if err != nil {
		return DefaultFetchParameters()
	}
	return params
}
