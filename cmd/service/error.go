// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// ErrorResponse is the body written for a failed request. State carries
// the session as it stood after the failure, so a client keeps rendering
// the previous results.
type ErrorResponse struct {
	Message string         `json:"message"`
	Reason  string         `json:"reason,omitempty"`
	State   *StateDocument `json:"state,omitempty"`
}

// statusOf maps a typed error to its HTTP status
func statusOf(err error) int {
	if errors.IsUserCancelled(err) || stderrors.Is(err, context.Canceled) {
		return http.StatusConflict
	}

	var (
		searchFailed  errors.SearchFailed
		invalidParams errors.InvalidFetchParameters
		validation    errors.Validation
		notFound      errors.NotFound
		unavailable   errors.ServiceUnavailable
	)
	switch {
	case stderrors.As(err, &searchFailed):
		return http.StatusBadGateway
	case stderrors.As(err, &invalidParams), stderrors.As(err, &validation):
		return http.StatusBadRequest
	case stderrors.As(err, &notFound):
		return http.StatusNotFound
	case stderrors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// wrapError builds the response for err and logs it at a level matching its status
func wrapError(ctx context.Context, err error, state *StateDocument) (int, ErrorResponse) {
	status := statusOf(err)
	response := ErrorResponse{
		Message: err.Error(),
		State:   state,
	}

	var searchFailed errors.SearchFailed
	if stderrors.As(err, &searchFailed) {
		response.Reason = searchFailed.Reason()
	}

	switch {
	case status == http.StatusConflict:
		slog.DebugContext(ctx, "request superseded", "error", err)
	case status >= http.StatusInternalServerError:
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
	default:
		slog.WarnContext(ctx, "request rejected", "error", err, "status", status)
	}

	return status, response
}

func writeError(ctx context.Context, w http.ResponseWriter, err error, state *StateDocument) {
	status, response := wrapError(ctx, err, state)
	writeResponse(ctx, w, status, response)
}
