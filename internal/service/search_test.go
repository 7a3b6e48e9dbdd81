// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSearchEvents(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(mock.NewMockRecordSearcher(), Options{})

	recorder := &eventRecorder{}
	unsubscribe := search.Subscribe(recorder.record)

	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("acetone")))
	assert.Equal(t, 1, recorder.count(EventParametersChanged))
	assert.Equal(t, 1, recorder.count(EventResultsChanged))
	assert.Equal(t, 2, recorder.count(EventLoadingChanged))

	_, err := search.ToggleSelected("SA1")
	assert.NoError(t, err)
	assert.Equal(t, 1, recorder.count(EventSelectionChanged))

	_, err = search.SetActiveResult(ctx, RefGlobalID("SA1"))
	assert.NoError(t, err)
	assert.Equal(t, 1, recorder.count(EventActiveResultChanged))

	assert.NoError(t, search.SetSearchView(model.SearchViewCard))
	assert.Equal(t, 1, recorder.count(EventViewChanged))

	unsubscribe()
	assert.NoError(t, search.SetSearchView(model.SearchViewTree))
	assert.Equal(t, 1, recorder.count(EventViewChanged))
}

func TestSearchViewSwitchDoesNotFetch(t *testing.T) {
	ctx := context.Background()
	searcher := mock.NewMockRecordSearcher()
	search := NewSearch(searcher, Options{})
	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("acetone")))

	for _, view := range []model.SearchView{model.SearchViewTree, model.SearchViewCard, model.SearchViewGrid, model.SearchViewImage, model.SearchViewList} {
		assert.NoError(t, search.SetSearchView(view))
		assert.Equal(t, view, search.View())
	}
	assert.Equal(t, 1, searcher.SearchCalls())

	err := search.SetSearchView("TABLE")
	var validation errors.Validation
	assert.ErrorAs(t, err, &validation)
}

func TestSearchLeavingParentClearsActiveResult(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(mock.NewMockRecordSearcher(), Options{})

	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithParentGlobalID("IC2")))
	_, err := search.SetActiveResult(ctx, RecordRef{})
	assert.NoError(t, err)
	assert.Equal(t, model.GlobalID("SS1"), model.GlobalIDOf(search.ActiveResult()))

	assert.NoError(t, search.SetPage(ctx, 0))
	assert.NotNil(t, search.ActiveResult(), "same parent keeps the active result")

	assert.NoError(t, search.PerformSearch(ctx, search.Params().WithParentGlobalID("BE1")))
	assert.Nil(t, search.ActiveResult())
}

func TestSearchAutoSelectFirst(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(mock.NewMockRecordSearcher(), Options{AutoSelectFirst: true})

	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("ethanol")))

	active := search.ActiveResult()
	assert.Equal(t, model.GlobalID("SA2"), model.GlobalIDOf(active))
	assert.False(t, active.Base().Summary)
}

func TestSearchOptions(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(mock.NewMockRecordSearcher(), Options{
		DefaultView: model.SearchViewTree,
		PageSize:    2,
		Exclude: func(r model.Record) bool {
			return r.Type() == model.RecordTypeSubSample
		},
	})
	assert.Equal(t, model.SearchViewTree, search.View())
	assert.Equal(t, 2, search.Params().PageSize)

	assert.NoError(t, search.PerformSearch(ctx, search.Params().WithQuery("acetone")))
	state := search.Snapshot()
	assert.Equal(t, []model.GlobalID{"SA1"}, gidsOf(state.Results))
	assert.Equal(t, 3, state.Pagination.Count)
	assert.Equal(t, model.RendererTree, state.Renderer)
}

func TestSearchRenderer(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(mock.NewMockRecordSearcher(), Options{})

	assert.Equal(t, model.RendererNoResults, search.Renderer())

	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithParentGlobalID("IC1")))
	assert.Equal(t, model.RendererEmptyContainer, search.Renderer())

	assert.NoError(t, search.SetSearchView(model.SearchViewGrid))
	assert.Equal(t, model.RendererGrid, search.Renderer())
}

func TestSearchDynamicAfterPagedSearch(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(newSampleSearcher(25), Options{})

	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithResultType(model.ResultTypeSample)))
	assert.Equal(t, 10, search.Results().Len())
	assert.True(t, search.DynamicFetcher().HasMore())

	assert.NoError(t, search.DynamicSearch(ctx))
	assert.Equal(t, 20, search.Results().Len())
	assert.NoError(t, search.DynamicSearch(ctx))
	assert.Equal(t, 25, search.Results().Len())

	state := search.Snapshot()
	assert.False(t, state.HasMore)
	assert.Equal(t, 0, state.NextDynamicPageSize)
}

func TestSearchDynamicAfterLaterPage(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(newSampleSearcher(25), Options{})

	params := model.DefaultFetchParameters().WithResultType(model.ResultTypeSample).WithPageNumber(2)
	assert.NoError(t, search.PerformSearch(ctx, params))
	assert.Equal(t, []model.GlobalID{"SA21", "SA22", "SA23", "SA24", "SA25"}, gidsOf(search.Results().All()))
	assert.NoError(t, search.SetSearchView(model.SearchViewTree))

	// the listing starts over from the first page
	assert.True(t, search.DynamicFetcher().HasMore())
	assert.Equal(t, 10, search.DynamicFetcher().NextDynamicPageSize())
	assert.NoError(t, search.DynamicSearch(ctx))
	results := gidsOf(search.Results().All())
	assert.Len(t, results, 10)
	assert.Equal(t, model.GlobalID("SA1"), results[0])

	for i := 0; i < 5; i++ {
		assert.NoError(t, search.DynamicSearch(ctx))
	}

	state := search.Snapshot()
	assert.Len(t, state.Results, 25)
	assert.Equal(t, 25, state.Pagination.Count)
	assert.False(t, state.HasMore)
	assert.Equal(t, 0, state.NextDynamicPageSize)
}

func TestSearchRescope(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(newSampleSearcher(25), Options{})

	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("Sample")))
	assert.Equal(t, 10, search.Results().Len())

	assert.NoError(t, search.Rescope(ctx, model.DefaultFetchParameters().WithResultType(model.ResultTypeSample)))
	assert.Equal(t, 0, search.Results().Len())
	assert.Equal(t, 0, search.Fetcher().Count())

	assert.NoError(t, search.DynamicSearch(ctx))
	assert.Equal(t, 10, search.Results().Len())
}

func TestSearchFailurePreservesResults(t *testing.T) {
	ctx := context.Background()
	searcher := mock.NewMockRecordSearcher()
	search := NewSearch(searcher, Options{})

	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("acetone")))
	before := search.Snapshot()

	searcher.SetSearchError(stderrors.New("503"))
	err := search.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("ethanol"))
	var failed errors.SearchFailed
	assert.ErrorAs(t, err, &failed)

	after := search.Snapshot()
	assert.Equal(t, gidsOf(before.Results), gidsOf(after.Results))
	assert.Equal(t, before.Pagination, after.Pagination)
	assert.False(t, after.Loading)
}

func TestSearchSelectAll(t *testing.T) {
	ctx := context.Background()
	search := NewSearch(mock.NewMockRecordSearcher(), Options{})
	assert.NoError(t, search.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("acetone")))

	search.SetAllSelected(true)
	assert.Len(t, search.Results().Selected(), 3)

	_, err := search.ToggleSelected("IT404")
	var notFound errors.NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestSearchesAreIndependent(t *testing.T) {
	ctx := context.Background()
	searcher := mock.NewMockRecordSearcher()
	primary := NewSearch(searcher, Options{})
	picker := NewSearch(searcher, Options{})

	assert.NoError(t, primary.PerformSearch(ctx, model.DefaultFetchParameters().WithQuery("acetone")))
	assert.NoError(t, picker.PerformSearch(ctx, model.DefaultFetchParameters().WithResultType(model.ResultTypeContainer)))

	assert.Equal(t, 3, primary.Results().Len())
	assert.Equal(t, 3, picker.Results().Len())
	assert.NotEqual(t, primary.Params(), picker.Params())
}
