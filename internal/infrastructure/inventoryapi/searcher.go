// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package inventoryapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// RecordSearcher implements the port.RecordSearcher interface using the inventory REST API
type RecordSearcher struct {
	client *Client
	group  singleflight.Group
}

// Search returns one page of records. Response links point at API URLs and
// are translated into in-app search locations.
func (s *RecordSearcher) Search(ctx context.Context, params model.FetchParameters) (*model.SearchResponse, error) {
	slog.DebugContext(ctx, "searching records via inventory API",
		"query", params.Query,
		"result_type", params.ResultType,
		"page_number", params.PageNumber,
		"page_size", params.PageSize,
	)

	result, err := s.client.Search(ctx, params)
	if err != nil {
		slog.ErrorContext(ctx, "error searching records", "error", err)
		return nil, err
	}

	docs := make([]model.RecordDocument, 0, len(result.Records))
	for _, record := range result.Records {
		docs = append(docs, record.document(true))
	}
	records, errs := model.ToRecords(docs)
	for _, errConvert := range errs {
		slog.WarnContext(ctx, "skipping unreadable record", "error", errConvert)
	}

	response := &model.SearchResponse{
		Records: records,
		Count:   result.TotalHits,
		Links:   translateLinks(ctx, result.Links),
	}
	if len(result.Links) == 0 {
		response.Links = model.NewLinks(params, result.TotalHits, locate)
	}

	slog.DebugContext(ctx, "search completed",
		"count", response.Count,
		"records", len(response.Records),
	)

	return response, nil
}

// GetRecord fetches the full details of one record. Concurrent requests for
// the same record share one API call, which runs detached from any single
// caller's cancellation; each caller still stops waiting when its own ctx ends.
func (s *RecordSearcher) GetRecord(ctx context.Context, globalID model.GlobalID) (model.Record, error) {
	sharedCtx := context.WithoutCancel(ctx)
	resultc := s.group.DoChan(string(globalID), func() (any, error) {
		apiRecord, errGet := s.client.GetRecord(sharedCtx, globalID)
		if errGet != nil {
			return nil, errGet
		}
		return apiRecord.document(false).ToRecord()
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		slog.DebugContext(ctx, "stopped waiting for record", "global_id", globalID, "error", ctx.Err())
		return nil, ctx.Err()
	case result = <-resultc:
	}

	if result.Err != nil {
		var notFound errors.NotFound
		if stderrors.As(result.Err, &notFound) {
			slog.DebugContext(ctx, "record not found", "global_id", globalID)
		} else {
			slog.ErrorContext(ctx, "error fetching record", "global_id", globalID, "error", result.Err)
		}
		return nil, result.Err
	}

	slog.DebugContext(ctx, "record fetched", "global_id", globalID, "shared", result.Shared)
	return result.Val.(model.Record), nil
}

// IsReady checks if the inventory API is ready to serve requests
func (s *RecordSearcher) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}

func locate(params model.FetchParameters) string {
	return params.Location(constants.SearchPath)
}

// translateLinks maps API page links onto search locations
func translateLinks(ctx context.Context, apiLinks []APIRelLink) model.Links {
	var links model.Links
	for _, apiLink := range apiLinks {
		var target *model.Link
		switch apiLink.Rel {
		case "next":
			target = &links.Next
		case "prev", "previous":
			target = &links.Previous
		case "last":
			target = &links.Last
		default:
			continue
		}

		u, err := url.Parse(apiLink.Link)
		if err != nil {
			slog.WarnContext(ctx, "ignoring malformed page link", "link", apiLink.Link, "error", err)
			continue
		}
		params, err := model.ParseFetchParameters(u.RawQuery)
		if err != nil {
			slog.WarnContext(ctx, "ignoring unreadable page link", "link", apiLink.Link, "error", err)
			continue
		}
		*target = model.Link(locate(params))
	}
	return links
}

// NewRecordSearcher creates a new inventory API based record searcher
func NewRecordSearcher(ctx context.Context, config Config) (*RecordSearcher, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("inventory API base URL is required")
	}

	client := NewClient(config)

	if err := client.IsReady(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to inventory API: %w", err)
	}

	slog.InfoContext(ctx, "inventory API record searcher initialized successfully")

	return &RecordSearcher{
		client: client,
	}, nil
}
