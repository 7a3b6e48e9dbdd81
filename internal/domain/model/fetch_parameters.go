// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// ResultType restricts a search to one record variant
type ResultType string

const (
	ResultTypeAll       ResultType = "ALL"
	ResultTypeSample    ResultType = ResultType(RecordTypeSample)
	ResultTypeSubSample ResultType = ResultType(RecordTypeSubSample)
	ResultTypeContainer ResultType = ResultType(RecordTypeContainer)
	ResultTypeTemplate  ResultType = ResultType(RecordTypeTemplate)
)

// Valid reports whether t is a known result type
func (t ResultType) Valid() bool {
	switch t {
	case ResultTypeAll, ResultTypeSample, ResultTypeSubSample, ResultTypeContainer, ResultTypeTemplate:
		return true
	}
	return false
}

// Matches reports whether records of recordType pass the filter
func (t ResultType) Matches(recordType RecordType) bool {
	return t == ResultTypeAll || t == ResultType(recordType)
}

// OrderBy is the sort key
type OrderBy string

const (
	OrderByName             OrderBy = "name"
	OrderByGlobalID         OrderBy = "globalId"
	OrderByCreationDate     OrderBy = "creationDate"
	OrderByModificationDate OrderBy = "modificationDate"
)

// Valid reports whether o is a known sort key
func (o OrderBy) Valid() bool {
	switch o {
	case OrderByName, OrderByGlobalID, OrderByCreationDate, OrderByModificationDate:
		return true
	}
	return false
}

// SortDirection is the sort direction
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Valid reports whether d is a known sort direction
func (d SortDirection) Valid() bool {
	return d == SortAscending || d == SortDescending
}

// DeletedItems controls whether trashed records are returned
type DeletedItems string

const (
	DeletedItemsExclude     DeletedItems = "EXCLUDE"
	DeletedItemsInclude     DeletedItems = "INCLUDE"
	DeletedItemsDeletedOnly DeletedItems = "DELETED_ONLY"
)

// Valid reports whether d is a known deleted items filter
func (d DeletedItems) Valid() bool {
	switch d {
	case DeletedItemsExclude, DeletedItemsInclude, DeletedItemsDeletedOnly:
		return true
	}
	return false
}

// Matches reports whether a record with the given deleted flag passes the filter
func (d DeletedItems) Matches(deleted bool) bool {
	switch d {
	case DeletedItemsInclude:
		return true
	case DeletedItemsDeletedOnly:
		return deleted
	}
	return !deleted
}

// FetchParameters describes one search request. It is a comparable value:
// every change goes through a With method that returns a modified copy, so
// two parameter sets can be compared with ==.
type FetchParameters struct {
	// Query is the free text query; empty means no text filter
	Query string
	// ResultType restricts the record variant
	ResultType ResultType
	// OwnedBy restricts results to one owner; empty means any owner
	OwnedBy string
	// ParentGlobalID scopes the search to the contents of a record
	ParentGlobalID GlobalID
	// DeletedItems controls whether trashed records are returned
	DeletedItems DeletedItems
	// OrderBy is the sort key
	OrderBy OrderBy
	// Order is the sort direction
	Order SortDirection
	// PageNumber is zero based
	PageNumber int
	// PageSize is the number of records per page
	PageSize int
}

// DefaultFetchParameters returns the parameters of a blank search
func DefaultFetchParameters() FetchParameters {
	return FetchParameters{
		ResultType:   ResultTypeAll,
		DeletedItems: DeletedItemsExclude,
		OrderBy:      OrderByName,
		Order:        SortAscending,
		PageNumber:   0,
		PageSize:     constants.DefaultPageSize,
	}
}

// WithQuery returns a copy searching for q from the first page. Starting a
// text search from an empty query drops the type and owner filters left over
// from the previous view.
func (p FetchParameters) WithQuery(q string) FetchParameters {
	if p.Query == "" && q != "" {
		p.ResultType = ResultTypeAll
		p.OwnedBy = ""
	}
	p.Query = q
	p.PageNumber = 0
	return p
}

// WithResultType returns a copy restricted to t, from the first page
func (p FetchParameters) WithResultType(t ResultType) FetchParameters {
	p.ResultType = t
	p.PageNumber = 0
	return p
}

// WithOwnedBy returns a copy restricted to one owner, from the first page
func (p FetchParameters) WithOwnedBy(owner string) FetchParameters {
	p.OwnedBy = owner
	p.PageNumber = 0
	return p
}

// WithParentGlobalID returns a copy scoped to the contents of parent, from the first page
func (p FetchParameters) WithParentGlobalID(parent GlobalID) FetchParameters {
	p.ParentGlobalID = parent
	p.PageNumber = 0
	return p
}

// WithDeletedItems returns a copy with the given trash filter, from the first page
func (p FetchParameters) WithDeletedItems(d DeletedItems) FetchParameters {
	p.DeletedItems = d
	p.PageNumber = 0
	return p
}

// WithOrder returns a copy sorted by key and direction, from the first page
func (p FetchParameters) WithOrder(by OrderBy, direction SortDirection) FetchParameters {
	p.OrderBy = by
	p.Order = direction
	p.PageNumber = 0
	return p
}

// WithPageNumber returns a copy on page n
func (p FetchParameters) WithPageNumber(n int) FetchParameters {
	p.PageNumber = n
	return p
}

// WithPageSize returns a copy with n records per page. The page number is
// recomputed so the first record of the current page stays visible.
func (p FetchParameters) WithPageSize(n int) FetchParameters {
	if n < 1 || n == p.PageSize {
		p.PageSize = n
		return p
	}
	if p.PageSize > 0 {
		firstRecord := p.PageNumber * p.PageSize
		p.PageNumber = firstRecord / n
	}
	p.PageSize = n
	return p
}

// Offset is the index of the first record of the page
func (p FetchParameters) Offset() int {
	return p.PageNumber * p.PageSize
}

// Narrowed reports whether the parameters restrict the search beyond the
// free text query. An empty query is only worth sending when they do.
func (p FetchParameters) Narrowed() bool {
	return p.ResultType != ResultTypeAll || !p.ParentGlobalID.IsZero() || p.OwnedBy != ""
}

// Sendable reports whether the parameters describe a search worth sending
func (p FetchParameters) Sendable() bool {
	return p.Query != "" || p.Narrowed()
}

// Validate checks the parameter contract
func (p FetchParameters) Validate() error {
	if p.PageSize < 1 {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("page size must be at least 1, got %d", p.PageSize))
	}
	if p.PageSize > constants.MaxPageSize {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("page size must be at most %d, got %d", constants.MaxPageSize, p.PageSize))
	}
	if p.PageNumber < 0 {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("page number must not be negative, got %d", p.PageNumber))
	}
	if !p.ResultType.Valid() {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("unknown result type %q", p.ResultType))
	}
	if !p.DeletedItems.Valid() {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("unknown deleted items filter %q", p.DeletedItems))
	}
	if !p.OrderBy.Valid() {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("unknown sort key %q", p.OrderBy))
	}
	if !p.Order.Valid() {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("unknown sort direction %q", p.Order))
	}
	if !p.ParentGlobalID.IsZero() && !p.ParentGlobalID.Valid() {
		return errors.NewInvalidFetchParameters(fmt.Sprintf("malformed parent global id %q", p.ParentGlobalID))
	}
	return nil
}
