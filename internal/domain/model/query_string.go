// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// Query string keys, in encoding order.
const (
	keyQuery          = "query"
	keyResultType     = "resultType"
	keyOwnedBy        = "ownedBy"
	keyParentGlobalID = "parentGlobalId"
	keyDeletedItems   = "deletedItems"
	keyOrderBy        = "orderBy"
	keyOrder          = "order"
	keyPageNumber     = "pageNumber"
	keyPageSize       = "pageSize"
)

// ParseFetchParameters reads search parameters from a URL query string.
// Unknown keys are ignored; missing or unusable values take the defaults.
func ParseFetchParameters(rawQuery string) (FetchParameters, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return FetchParameters{}, errors.NewValidation("malformed search query string", err)
	}

	params := DefaultFetchParameters()

	params.Query = values.Get(keyQuery)

	if v := ResultType(strings.ToUpper(values.Get(keyResultType))); v.Valid() {
		params.ResultType = v
	}
	params.OwnedBy = values.Get(keyOwnedBy)
	if v := GlobalID(values.Get(keyParentGlobalID)); v.Valid() {
		params.ParentGlobalID = v
	}
	if v := DeletedItems(strings.ToUpper(values.Get(keyDeletedItems))); v.Valid() {
		params.DeletedItems = v
	}
	if v := OrderBy(values.Get(keyOrderBy)); v.Valid() {
		params.OrderBy = v
	}
	if v := SortDirection(strings.ToLower(values.Get(keyOrder))); v.Valid() {
		params.Order = v
	}
	if n, errAtoi := strconv.Atoi(values.Get(keyPageNumber)); errAtoi == nil && n >= 0 {
		params.PageNumber = n
	}
	if n, errAtoi := strconv.Atoi(values.Get(keyPageSize)); errAtoi == nil && n >= 1 && n <= constants.MaxPageSize {
		params.PageSize = n
	}

	return params, nil
}

// QueryString encodes the parameters in a fixed key order. The result type
// is always present; every other key only when it differs from the default.
func (p FetchParameters) QueryString() string {
	defaults := DefaultFetchParameters()

	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	if p.Query != "" {
		add(keyQuery, p.Query)
	}
	add(keyResultType, string(p.ResultType))
	if p.OwnedBy != "" {
		add(keyOwnedBy, p.OwnedBy)
	}
	if !p.ParentGlobalID.IsZero() {
		add(keyParentGlobalID, string(p.ParentGlobalID))
	}
	if p.DeletedItems != defaults.DeletedItems {
		add(keyDeletedItems, string(p.DeletedItems))
	}
	if p.OrderBy != defaults.OrderBy {
		add(keyOrderBy, string(p.OrderBy))
	}
	if p.Order != defaults.Order {
		add(keyOrder, string(p.Order))
	}
	if p.PageNumber != defaults.PageNumber {
		add(keyPageNumber, strconv.Itoa(p.PageNumber))
	}
	if p.PageSize != defaults.PageSize {
		add(keyPageSize, strconv.Itoa(p.PageSize))
	}

	return b.String()
}

// Location joins basePath and the encoded parameters
func (p FetchParameters) Location(basePath string) string {
	return basePath + "?" + p.QueryString()
}

// SplitLocation separates an in-app location into its path and raw query
func SplitLocation(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", errors.NewValidation("malformed location", err)
	}
	return u.Path, u.RawQuery, nil
}
