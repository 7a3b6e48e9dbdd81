// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// Link is a page reference; the empty link means there is no such page
type Link string

// Present reports whether the link points somewhere
func (l Link) Present() bool {
	return l != ""
}

// MarshalJSON encodes a missing link as false
func (l Link) MarshalJSON() ([]byte, error) {
	if l == "" {
		return []byte("false"), nil
	}
	return json.Marshal(string(l))
}

// UnmarshalJSON accepts a string, false or null
func (l *Link) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "false", "null":
		*l = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = Link(s)
	return nil
}

// Links are the neighbouring page references of a response
type Links struct {
	Next     Link `json:"next"`
	Previous Link `json:"previous"`
	Last     Link `json:"last"`
}

// PaginationState is the paging metadata of the last applied response
type PaginationState struct {
	// Count is the total number of matches on the server
	Count int   `json:"count"`
	Links Links `json:"links"`
}

// LastPage returns the zero based index of the last page, 0 when empty
func LastPage(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count - 1) / pageSize
}

// NewLinks derives page links from page arithmetic, for backends that do
// not return links of their own
func NewLinks(params FetchParameters, count int, locate func(FetchParameters) string) Links {
	var links Links
	if count <= 0 || params.PageSize <= 0 {
		return links
	}
	last := LastPage(count, params.PageSize)
	if params.PageNumber < last {
		links.Next = Link(locate(params.WithPageNumber(params.PageNumber + 1)))
	}
	if params.PageNumber > 0 {
		previous := params.PageNumber - 1
		if previous > last {
			previous = last
		}
		links.Previous = Link(locate(params.WithPageNumber(previous)))
	}
	links.Last = Link(locate(params.WithPageNumber(last)))
	return links
}

// SearchResponse is what a search collaborator returns for one page
type SearchResponse struct {
	Records []Record
	Count   int
	Links   Links
}
