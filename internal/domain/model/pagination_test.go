// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"testing"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/stretchr/testify/assert"
)

func locate(p FetchParameters) string {
	return p.Location(constants.SearchPath)
}

func TestNewLinks(t *testing.T) {
	base := DefaultFetchParameters().WithResultType(ResultTypeSample)

	tests := []struct {
		name     string
		page     int
		count    int
		expected Links
	}{
		{
			name:  "first page",
			page:  0,
			count: 25,
			expected: Links{
				Next: Link(locate(base.WithPageNumber(1))),
				Last: Link(locate(base.WithPageNumber(2))),
			},
		},
		{
			name:  "middle page",
			page:  1,
			count: 25,
			expected: Links{
				Next:     Link(locate(base.WithPageNumber(2))),
				Previous: Link(locate(base.WithPageNumber(0))),
				Last:     Link(locate(base.WithPageNumber(2))),
			},
		},
		{
			name:  "last page has no next",
			page:  2,
			count: 25,
			expected: Links{
				Previous: Link(locate(base.WithPageNumber(1))),
				Last:     Link(locate(base.WithPageNumber(2))),
			},
		},
		{
			name:  "past the end has no next",
			page:  5,
			count: 25,
			expected: Links{
				Previous: Link(locate(base.WithPageNumber(2))),
				Last:     Link(locate(base.WithPageNumber(2))),
			},
		},
		{
			name:     "nothing found",
			page:     0,
			count:    0,
			expected: Links{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewLinks(base.WithPageNumber(tc.page), tc.count, locate)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLinksJSON(t *testing.T) {
	data, err := json.Marshal(Links{Next: "/inventory/search?resultType=ALL&pageNumber=1"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"next":"/inventory/search?resultType=ALL&pageNumber=1","previous":false,"last":false}`, string(data))

	var links Links
	assert.NoError(t, json.Unmarshal([]byte(`{"next":false,"previous":null,"last":"/x"}`), &links))
	assert.False(t, links.Next.Present())
	assert.False(t, links.Previous.Present())
	assert.Equal(t, Link("/x"), links.Last)
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 0, LastPage(0, 10))
	assert.Equal(t, 0, LastPage(10, 10))
	assert.Equal(t, 1, LastPage(11, 10))
	assert.Equal(t, 2, LastPage(25, 10))
}
