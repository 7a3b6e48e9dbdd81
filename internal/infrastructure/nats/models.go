// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
)

// Subjects served by the inventory responder
const (
	SubjectSearch    = "inventory.search"
	SubjectGetRecord = "inventory.record.get"
)

// Reply error codes
const (
	ErrorCodeNotFound   = "not_found"
	ErrorCodeValidation = "validation"
)

// Config represents NATS configuration
type Config struct {
	// URL is the NATS server URL
	URL string `json:"url"`
	// Timeout is the request timeout duration
	Timeout time.Duration `json:"timeout"`
	// MaxReconnect is the maximum number of reconnection attempts
	MaxReconnect int `json:"max_reconnect"`
	// ReconnectWait is the time to wait between reconnection attempts
	ReconnectWait time.Duration `json:"reconnect_wait"`
}

// SearchRequest asks for one page of records. Query is the canonical
// search query string.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchReply is one page of records
type SearchReply struct {
	Count   int                    `json:"count"`
	Records []model.RecordDocument `json:"records"`
	Error   *ReplyError            `json:"error,omitempty"`
}

// GetRecordRequest asks for the full details of one record
type GetRecordRequest struct {
	GlobalID string `json:"globalId"`
}

// GetRecordReply carries one record
type GetRecordReply struct {
	Record *model.RecordDocument `json:"record,omitempty"`
	Error  *ReplyError           `json:"error,omitempty"`
}

// ReplyError is a failure reported by the responder
type ReplyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
