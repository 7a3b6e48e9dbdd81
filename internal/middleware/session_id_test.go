// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
)

func TestSessionIDMiddleware(t *testing.T) {
	existing := uuid.New().String()

	tests := []struct {
		name            string
		header          string
		expectPreserved bool
	}{
		{
			name:            "starts a session when none provided",
			header:          "",
			expectPreserved: false,
		},
		{
			name:            "keeps a well formed session id",
			header:          existing,
			expectPreserved: true,
		},
		{
			name:            "replaces a malformed session id",
			header:          "not-a-session",
			expectPreserved: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured string
			handler := SessionIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = SessionIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/inventory/search", nil)
			if tc.header != "" {
				req.Header.Set(string(constants.SessionIDHeader), tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			_, err := uuid.Parse(captured)
			assert.NoError(t, err)
			if tc.expectPreserved {
				assert.Equal(t, tc.header, captured)
			} else {
				assert.NotEqual(t, tc.header, captured)
			}
			assert.Equal(t, captured, rec.Header().Get(string(constants.SessionIDHeader)))
		})
	}
}
