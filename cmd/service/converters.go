// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	usecase "github.com/linuxfoundation/lfx-v2-inventory-search/internal/service"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
)

// ParamsDocument is the JSON shape of the search parameters
type ParamsDocument struct {
	Query          string `json:"query"`
	ResultType     string `json:"resultType"`
	OwnedBy        string `json:"ownedBy,omitempty"`
	ParentGlobalID string `json:"parentGlobalId,omitempty"`
	DeletedItems   string `json:"deletedItems"`
	OrderBy        string `json:"orderBy"`
	Order          string `json:"order"`
	PageNumber     int    `json:"pageNumber"`
	PageSize       int    `json:"pageSize"`
}

// ResultDocument is one visible result and its selection
type ResultDocument struct {
	model.RecordDocument
	Selected bool `json:"selected"`
}

// StateDocument is what every session route returns
type StateDocument struct {
	SessionID           string                `json:"sessionId"`
	Location            string                `json:"location"`
	Navigated           bool                  `json:"navigated"`
	Params              ParamsDocument        `json:"params"`
	Count               int                   `json:"count"`
	Links               model.Links           `json:"links"`
	Loading             bool                  `json:"loading"`
	DynamicLoading      bool                  `json:"dynamicLoading"`
	PageNumber          int                   `json:"pageNumber"`
	PageSize            int                   `json:"pageSize"`
	NextDynamicPageSize int                   `json:"nextDynamicPageSize"`
	HasMore             bool                  `json:"hasMore"`
	Results             []ResultDocument      `json:"results"`
	ActiveResult        *model.RecordDocument `json:"activeResult,omitempty"`
	ActiveState         usecase.ActiveState   `json:"activeState"`
	View                model.SearchView      `json:"view"`
	Renderer            model.Renderer        `json:"renderer"`
}

// SavedSearchResponse is one saved search and the location that opens it
type SavedSearchResponse struct {
	Name     string         `json:"name"`
	Location string         `json:"location"`
	Params   ParamsDocument `json:"params"`
}

func paramsDocument(p model.FetchParameters) ParamsDocument {
	return ParamsDocument{
		Query:          p.Query,
		ResultType:     string(p.ResultType),
		OwnedBy:        p.OwnedBy,
		ParentGlobalID: string(p.ParentGlobalID),
		DeletedItems:   string(p.DeletedItems),
		OrderBy:        string(p.OrderBy),
		Order:          string(p.Order),
		PageNumber:     p.PageNumber,
		PageSize:       p.PageSize,
	}
}

func resultDocuments(results []usecase.Result) []ResultDocument {
	docs := make([]ResultDocument, 0, len(results))
	for _, result := range results {
		docs = append(docs, ResultDocument{
			RecordDocument: model.DocumentOf(result.Record),
			Selected:       result.Selected,
		})
	}
	return docs
}

// stateDocument snapshots session. Location is the place the client router
// should be, taken from nav when the request pushed one.
func stateDocument(session *Session, nav *navigation) StateDocument {
	state := session.Search.Snapshot()

	location, navigated := nav.result()
	if !navigated {
		location = session.Nav.Location()
	}

	doc := StateDocument{
		SessionID:           session.ID,
		Location:            location,
		Navigated:           navigated,
		Params:              paramsDocument(state.Params),
		Count:               state.Pagination.Count,
		Links:               state.Pagination.Links,
		Loading:             state.Loading,
		DynamicLoading:      state.DynamicLoading,
		PageNumber:          state.Params.PageNumber,
		PageSize:            state.Params.PageSize,
		NextDynamicPageSize: state.NextDynamicPageSize,
		HasMore:             state.HasMore,
		Results:             resultDocuments(state.Results),
		ActiveState:         state.ActiveState,
		View:                state.View,
		Renderer:            state.Renderer,
	}
	if state.ActiveResult != nil {
		active := model.DocumentOf(state.ActiveResult)
		doc.ActiveResult = &active
	}
	return doc
}

func savedSearchResponses(saved []model.SavedSearch) []SavedSearchResponse {
	responses := make([]SavedSearchResponse, 0, len(saved))
	for _, s := range saved {
		responses = append(responses, SavedSearchResponse{
			Name:     s.Name,
			Location: s.Params.Location(constants.SearchPath),
			Params:   paramsDocument(s.Params),
		})
	}
	return responses
}
