// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// NATSRecordSearcher implements the port.RecordSearcher interface over NATS request/reply
type NATSRecordSearcher struct {
	client NATSClientInterface
}

// Search implements the port.RecordSearcher interface
func (n *NATSRecordSearcher) Search(ctx context.Context, params model.FetchParameters) (*model.SearchResponse, error) {
	slog.DebugContext(ctx, "executing NATS record search",
		"subject", SubjectSearch,
		"query", params.QueryString(),
	)

	var reply SearchReply
	if err := n.request(ctx, SubjectSearch, SearchRequest{Query: params.QueryString()}, &reply); err != nil {
		return nil, err
	}
	if reply.Error != nil {
		return nil, n.convertReplyError(reply.Error)
	}

	records, errs := model.ToRecords(reply.Records)
	for _, errConvert := range errs {
		slog.WarnContext(ctx, "skipping unreadable record", "error", errConvert)
	}
	for i, record := range records {
		records[i] = model.AsSummary(record)
	}

	response := &model.SearchResponse{
		Records: records,
		Count:   reply.Count,
		Links: model.NewLinks(params, reply.Count, func(p model.FetchParameters) string {
			return p.Location(constants.SearchPath)
		}),
	}

	slog.DebugContext(ctx, "NATS record search completed",
		"count", response.Count,
		"records", len(response.Records),
	)

	return response, nil
}

// GetRecord implements the port.RecordSearcher interface
func (n *NATSRecordSearcher) GetRecord(ctx context.Context, globalID model.GlobalID) (model.Record, error) {
	var reply GetRecordReply
	if err := n.request(ctx, SubjectGetRecord, GetRecordRequest{GlobalID: string(globalID)}, &reply); err != nil {
		return nil, err
	}
	if reply.Error != nil {
		return nil, n.convertReplyError(reply.Error)
	}
	if reply.Record == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("record %s not found", globalID))
	}

	record, err := reply.Record.ToRecord()
	if err != nil {
		return nil, errors.NewUnexpected("unreadable record in reply", err)
	}
	return model.WithDetails(record), nil
}

// IsReady checks if the NATS connection is up
func (n *NATSRecordSearcher) IsReady(ctx context.Context) error {
	if err := n.client.IsReady(ctx); err != nil {
		return errors.NewServiceUnavailable("NATS is not ready", err)
	}
	return nil
}

// Close gracefully closes the NATS connection
func (n *NATSRecordSearcher) Close() error {
	return n.client.Close()
}

// request marshals payload, sends it on subject and decodes the reply into out
func (n *NATSRecordSearcher) request(ctx context.Context, subject string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.NewUnexpected("failed to encode request", err)
	}

	reply, err := n.client.Request(ctx, subject, data)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.NewServiceUnavailable("NATS request failed", err)
	}

	if err := json.Unmarshal(reply, out); err != nil {
		slog.ErrorContext(ctx, "invalid NATS reply", "subject", subject, "error", err)
		return errors.NewUnexpected("failed to decode reply", err)
	}
	return nil
}

// convertReplyError maps responder failures onto typed errors
func (n *NATSRecordSearcher) convertReplyError(replyError *ReplyError) error {
	switch replyError.Code {
	case ErrorCodeNotFound:
		return errors.NewNotFound(replyError.Message)
	case ErrorCodeValidation:
		return errors.NewValidation(replyError.Message)
	}
	return errors.NewUnexpected(replyError.Message)
}

// NewRecordSearcher creates a new NATS record searcher
func NewRecordSearcher(ctx context.Context, config Config) (*NATSRecordSearcher, error) {
	slog.InfoContext(ctx, "creating NATS record searcher",
		"url", config.URL,
	)

	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS client: %w", err)
	}

	return &NATSRecordSearcher{
		client: client,
	}, nil
}
