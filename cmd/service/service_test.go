// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/mock"
	usecase "github.com/linuxfoundation/lfx-v2-inventory-search/internal/service"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"

	"github.com/stretchr/testify/assert"
	goahttp "goa.design/goa/v3/http"
)

type testServer struct {
	handler  http.Handler
	searcher *mock.MockRecordSearcher
	store    *mock.MockKeyValueStore
	sessions *SessionRegistry
}

func newTestServer() *testServer {
	searcher := mock.NewMockRecordSearcher()
	store := mock.NewMockKeyValueStore()
	sessions := NewSessionRegistry(searcher, usecase.Options{}, time.Hour)

	mux := goahttp.NewMuxer()
	NewInventorySearch(sessions, searcher, store).Mount(mux)

	return &testServer{
		handler:  mux,
		searcher: searcher,
		store:    store,
		sessions: sessions,
	}
}

func (s *testServer) do(method, target, sessionID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(string(constants.SessionIDHeader), sessionID)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) StateDocument {
	t.Helper()
	var state StateDocument
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func resultIDs(state StateDocument) []string {
	ids := make([]string, 0, len(state.Results))
	for _, result := range state.Results {
		ids = append(ids, result.GlobalID)
	}
	return ids
}

func TestLoadLocation(t *testing.T) {
	server := newTestServer()

	rec := server.do(http.MethodGet, "/inventory/search?query=acetone", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	sessionID := rec.Header().Get(string(constants.SessionIDHeader))
	assert.NotEmpty(t, sessionID)

	state := decodeState(t, rec)
	assert.Equal(t, sessionID, state.SessionID)
	assert.Equal(t, "/inventory/search?query=acetone&resultType=ALL", state.Location)
	assert.False(t, state.Navigated)
	assert.Equal(t, 3, state.Count)
	assert.Equal(t, []string{"SA1", "SS1", "SS2"}, resultIDs(state))
	assert.Equal(t, "acetone", state.Params.Query)
	assert.Equal(t, model.SearchViewList, state.View)
	assert.Equal(t, model.RendererList, state.Renderer)
	assert.Equal(t, usecase.ActiveIdle, state.ActiveState)
	assert.Equal(t, 1, server.sessions.Len())

	// the same session answers the next request
	rec = server.do(http.MethodGet, "/inventory/search?query=ethanol", sessionID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, rec.Header().Get(string(constants.SessionIDHeader)))
	assert.Equal(t, 1, server.sessions.Len())
}

func TestSessionActions(t *testing.T) {
	server := newTestServer()
	rec := server.do(http.MethodGet, "/inventory/search?query=acetone", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	sessionID := rec.Header().Get(string(constants.SessionIDHeader))

	tests := []struct {
		name   string
		method string
		target string
		body   string
		check  func(t *testing.T, state StateDocument)
	}{
		{
			name:   "change page size",
			method: http.MethodPut,
			target: "/inventory/search/page-size",
			body:   `{"pageSize":1}`,
			check: func(t *testing.T, state StateDocument) {
				assert.True(t, state.Navigated)
				assert.Equal(t, "/inventory/search?query=acetone&resultType=ALL&pageSize=1", state.Location)
				assert.Equal(t, 3, state.Count)
				assert.Equal(t, []string{"SA1"}, resultIDs(state))
				assert.Equal(t, model.Link("/inventory/search?query=acetone&resultType=ALL&pageNumber=1&pageSize=1"), state.Links.Next)
				assert.False(t, state.Links.Previous.Present())
			},
		},
		{
			name:   "move to last page",
			method: http.MethodPut,
			target: "/inventory/search/page",
			body:   `{"pageNumber":2}`,
			check: func(t *testing.T, state StateDocument) {
				assert.True(t, state.Navigated)
				assert.Equal(t, 2, state.PageNumber)
				assert.Equal(t, []string{"SS2"}, resultIDs(state))
				assert.Equal(t, model.Link("/inventory/search?query=acetone&resultType=ALL&pageNumber=1&pageSize=1"), state.Links.Previous)
				assert.False(t, state.Links.Next.Present())
			},
		},
		{
			name:   "navigate to a search location",
			method: http.MethodPost,
			target: "/inventory/search/navigate",
			body:   `{"location":"/inventory/search?query=ethanol&resultType=SAMPLE"}`,
			check: func(t *testing.T, state StateDocument) {
				assert.True(t, state.Navigated)
				assert.Equal(t, "/inventory/search?query=ethanol&resultType=SAMPLE", state.Location)
				assert.Equal(t, []string{"SA2"}, resultIDs(state))
				assert.Equal(t, "SAMPLE", state.Params.ResultType)
			},
		},
		{
			name:   "navigate to the current location again",
			method: http.MethodPost,
			target: "/inventory/search/navigate",
			body:   `{"location":"/inventory/search?query=ethanol&resultType=SAMPLE"}`,
			check: func(t *testing.T, state StateDocument) {
				assert.False(t, state.Navigated)
				assert.Equal(t, "/inventory/search?query=ethanol&resultType=SAMPLE", state.Location)
				assert.Equal(t, []string{"SA2"}, resultIDs(state))
			},
		},
		{
			name:   "navigate away from the search",
			method: http.MethodPost,
			target: "/inventory/search/navigate",
			body:   `{"location":"/inventory/sample/SA2"}`,
			check: func(t *testing.T, state StateDocument) {
				assert.True(t, state.Navigated)
				assert.Equal(t, "/inventory/sample/SA2", state.Location)
				assert.Equal(t, []string{"SA2"}, resultIDs(state))
			},
		},
		{
			name:   "switch view",
			method: http.MethodPut,
			target: "/inventory/search/view",
			body:   `{"view":"card"}`,
			check: func(t *testing.T, state StateDocument) {
				assert.False(t, state.Navigated)
				assert.Equal(t, model.SearchViewCard, state.View)
				assert.Equal(t, model.RendererCard, state.Renderer)
			},
		},
		{
			name:   "toggle selection",
			method: http.MethodPost,
			target: "/inventory/search/selected/SA2",
			check: func(t *testing.T, state StateDocument) {
				assert.True(t, state.Results[0].Selected)
			},
		},
		{
			name:   "deselect all",
			method: http.MethodPut,
			target: "/inventory/search/selected",
			body:   `{"selected":false}`,
			check: func(t *testing.T, state StateDocument) {
				assert.False(t, state.Results[0].Selected)
			},
		},
		{
			name:   "open a record",
			method: http.MethodPut,
			target: "/inventory/search/active",
			body:   `{"globalId":"SA2"}`,
			check: func(t *testing.T, state StateDocument) {
				if assert.NotNil(t, state.ActiveResult) {
					assert.Equal(t, "SA2", state.ActiveResult.GlobalID)
					assert.False(t, state.ActiveResult.Summary)
				}
				assert.Equal(t, usecase.ActiveSettled, state.ActiveState)
			},
		},
		{
			name:   "close the record",
			method: http.MethodDelete,
			target: "/inventory/search/active",
			check: func(t *testing.T, state StateDocument) {
				assert.Nil(t, state.ActiveResult)
				assert.Equal(t, usecase.ActiveIdle, state.ActiveState)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := server.do(tc.method, tc.target, sessionID, tc.body)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			tc.check(t, decodeState(t, rec))
		})
	}
}

func TestLoadMore(t *testing.T) {
	server := newTestServer()

	rec := server.do(http.MethodGet, "/inventory/search?query=acetone&pageSize=1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	sessionID := rec.Header().Get(string(constants.SessionIDHeader))

	state := decodeState(t, rec)
	assert.True(t, state.HasMore)
	assert.Equal(t, 1, state.NextDynamicPageSize)

	rec = server.do(http.MethodPost, "/inventory/search/more", sessionID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	state = decodeState(t, rec)
	assert.Equal(t, []string{"SA1", "SS1"}, resultIDs(state))
	assert.True(t, state.HasMore)

	rec = server.do(http.MethodPost, "/inventory/search/more", sessionID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	state = decodeState(t, rec)
	assert.Equal(t, []string{"SA1", "SS1", "SS2"}, resultIDs(state))
	assert.False(t, state.HasMore)
	assert.Equal(t, 0, state.NextDynamicPageSize)
}

func TestSessionActionErrors(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		expectedStatus int
	}{
		{
			name:           "unknown view",
			method:         http.MethodPut,
			target:         "/inventory/search/view",
			body:           `{"view":"sideways"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing page number",
			method:         http.MethodPut,
			target:         "/inventory/search/page",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative page number",
			method:         http.MethodPut,
			target:         "/inventory/search/page",
			body:           `{"pageNumber":-1}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero page size",
			method:         http.MethodPut,
			target:         "/inventory/search/page-size",
			body:           `{"pageSize":0}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			method:         http.MethodPut,
			target:         "/inventory/search/query",
			body:           `{"query":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing location",
			method:         http.MethodPost,
			target:         "/inventory/search/navigate",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed global id",
			method:         http.MethodPost,
			target:         "/inventory/search/selected/bogus",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "record not in the results",
			method:         http.MethodPost,
			target:         "/inventory/search/selected/SA9",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "open an unknown record",
			method:         http.MethodPut,
			target:         "/inventory/search/active",
			body:           `{"globalId":"SA9"}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer()
			rec := server.do(http.MethodGet, "/inventory/search?query=acetone", "", "")
			sessionID := rec.Header().Get(string(constants.SessionIDHeader))

			rec = server.do(tc.method, tc.target, sessionID, tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())

			var response ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Message)
			if assert.NotNil(t, response.State) {
				assert.Equal(t, sessionID, response.State.SessionID)
				assert.Equal(t, 3, response.State.Count)
			}
		})
	}
}

func TestSearchFailureKeepsState(t *testing.T) {
	server := newTestServer()
	rec := server.do(http.MethodGet, "/inventory/search?query=acetone", "", "")
	sessionID := rec.Header().Get(string(constants.SessionIDHeader))

	server.searcher.SetSearchError(errors.NewServiceUnavailable("inventory is down"))
	rec = server.do(http.MethodPut, "/inventory/search/query", sessionID, `{"query":"ethanol"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var response ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "search request failed", response.Reason)
	if assert.NotNil(t, response.State) {
		assert.Equal(t, "ethanol", response.State.Params.Query)
		assert.Equal(t, []string{"SA1", "SS1", "SS2"}, resultIDs(*response.State))
		assert.False(t, response.State.Loading)
	}
}

func TestSavedSearches(t *testing.T) {
	server := newTestServer()

	rec := server.do(http.MethodGet, "/inventory/saved-searches", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = server.do(http.MethodPost, "/inventory/saved-searches", "", `{"name":"acetone","query":"query=acetone&pageNumber=2"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved []SavedSearchResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	if assert.Len(t, saved, 1) {
		assert.Equal(t, "acetone", saved[0].Name)
		assert.Equal(t, "/inventory/search?query=acetone&resultType=ALL", saved[0].Location)
		assert.Equal(t, 0, saved[0].Params.PageNumber)
	}

	// without a query the session's current search is saved
	rec = server.do(http.MethodGet, "/inventory/search?query=ethanol&resultType=SAMPLE", "", "")
	sessionID := rec.Header().Get(string(constants.SessionIDHeader))
	rec = server.do(http.MethodPost, "/inventory/saved-searches", sessionID, `{"name":"my samples"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	if assert.Len(t, saved, 2) {
		assert.Equal(t, "/inventory/search?query=ethanol&resultType=SAMPLE", saved[1].Location)
	}

	rec = server.do(http.MethodDelete, "/inventory/saved-searches/my%20samples", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = server.do(http.MethodDelete, "/inventory/saved-searches/my%20samples", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = server.do(http.MethodPost, "/inventory/saved-searches", "", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(http.MethodGet, "/inventory/saved-searches", "", "")
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Len(t, saved, 1)
}

func TestHealthChecks(t *testing.T) {
	server := newTestServer()

	rec := server.do(http.MethodGet, "/livez", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = server.do(http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	server.searcher.SetIsReadyError(errors.NewServiceUnavailable("not connected"))
	rec = server.do(http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// health checks never open a session
	assert.Equal(t, 0, server.sessions.Len())
}
