// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
)

// RecordSearcher is the outbound search collaborator.
// Transport, authentication and retries belong to the implementation;
// the engine only sees a response or an error.
type RecordSearcher interface {
	// Search returns one page of records matching params
	Search(ctx context.Context, params model.FetchParameters) (*model.SearchResponse, error)

	// GetRecord fetches the full details of one record
	GetRecord(ctx context.Context, globalID model.GlobalID) (model.Record, error)

	// IsReady checks if the search service is ready
	IsReady(ctx context.Context) error
}
