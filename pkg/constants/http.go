// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

type requestIDHeaderType string

// RequestIDHeader is the header name for the request ID
const RequestIDHeader requestIDHeaderType = "X-REQUEST-ID"

type sessionIDHeaderType string

// SessionIDHeader is the header carrying the search session identifier
const SessionIDHeader sessionIDHeaderType = "X-SEARCH-SESSION"
