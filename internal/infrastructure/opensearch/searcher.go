// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// OpenSearchSearcher implements the port.RecordSearcher interface over an
// inventory index whose documents are model.RecordDocument values
type OpenSearchSearcher struct {
	client    OpenSearchClientRetriever
	index     string
	templates *SearchTemplates
}

// OpenSearchClientRetriever defines the interface for OpenSearch operations
// This allows for easy mocking and testing
type OpenSearchClientRetriever interface {
	Search(ctx context.Context, index string, query []byte) (*SearchResponse, error)
	IsReady(ctx context.Context) error
}

// Search implements the port.RecordSearcher interface
func (os *OpenSearchSearcher) Search(ctx context.Context, params model.FetchParameters) (*model.SearchResponse, error) {
	slog.DebugContext(ctx, "executing opensearch query for parameters",
		"query", params.Query,
		"result_type", params.ResultType,
		"page_number", params.PageNumber,
	)

	query, err := os.templates.RenderSearchRecordsQuery(NewTemplateData(params))
	if err != nil {
		slog.ErrorContext(ctx, "failed to render query template", "error", err)
		return nil, fmt.Errorf("failed to render query: %w", err)
	}

	response, err := os.client.Search(ctx, os.index, query)
	if err != nil {
		return nil, fmt.Errorf("opensearch search failed: %w", err)
	}

	result := &model.SearchResponse{
		Records: os.convertHits(ctx, response.Hits.Hits),
		Count:   response.Hits.Total.Value,
	}
	result.Links = model.NewLinks(params, result.Count, func(p model.FetchParameters) string {
		return p.Location(constants.SearchPath)
	})

	slog.DebugContext(ctx, "opensearch search completed",
		"results_count", len(result.Records),
		"total", result.Count,
	)
	return result, nil
}

// GetRecord implements the port.RecordSearcher interface
func (os *OpenSearchSearcher) GetRecord(ctx context.Context, globalID model.GlobalID) (model.Record, error) {
	query, err := os.templates.RenderRecordLookupQuery(globalID)
	if err != nil {
		return nil, fmt.Errorf("failed to render query: %w", err)
	}

	response, err := os.client.Search(ctx, os.index, query)
	if err != nil {
		return nil, fmt.Errorf("opensearch lookup failed: %w", err)
	}
	if len(response.Hits.Hits) == 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("record %s not found", globalID))
	}

	var doc model.RecordDocument
	if err := json.Unmarshal(response.Hits.Hits[0].Source, &doc); err != nil {
		return nil, errors.NewUnexpected("failed to unmarshal record", err)
	}
	doc.Summary = false
	return doc.ToRecord()
}

// IsReady checks if OpenSearch answers pings
func (os *OpenSearchSearcher) IsReady(ctx context.Context) error {
	if err := os.client.IsReady(ctx); err != nil {
		return errors.NewServiceUnavailable("opensearch is not ready", err)
	}
	return nil
}

// convertHits converts hits to summary records, skipping unreadable ones
func (os *OpenSearchSearcher) convertHits(ctx context.Context, hits []Hit) []model.Record {
	records := make([]model.Record, 0, len(hits))
	for _, hit := range hits {
		var doc model.RecordDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			// Log error but continue processing other hits
			slog.ErrorContext(ctx, "failed to unmarshal hit", "hit_id", hit.ID, "error", err)
			continue
		}
		doc.Summary = true
		record, err := doc.ToRecord()
		if err != nil {
			slog.ErrorContext(ctx, "failed to convert hit", "hit_id", hit.ID, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records
}

// NewSearcher returns a new OpenSearchSearcher implementation
func NewSearcher(ctx context.Context, config Config) (*OpenSearchSearcher, error) {

	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}
	if config.Index == "" {
		slog.ErrorContext(ctx, "opensearch index is required")
		return nil, fmt.Errorf("opensearch index is required")
	}

	templates, err := NewSearchTemplates()
	if err != nil {
		return nil, err
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{config.URL},
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: 5 * time.Second,
				DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	return &OpenSearchSearcher{
		client:    &httpClient{client: opensearchClient},
		index:     config.Index,
		templates: templates,
	}, nil
}
