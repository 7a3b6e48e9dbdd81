// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/log"

	"github.com/google/uuid"
)

// SessionIDMiddleware resolves the search session of a request. A missing or
// malformed session header starts a new session. The session ID is echoed
// in the response header.
func SessionIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(string(constants.SessionIDHeader))
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.New().String()
			}

			w.Header().Set(string(constants.SessionIDHeader), sessionID)

			ctx := context.WithValue(r.Context(), constants.SessionIDHeader, sessionID)
			ctx = log.AppendCtx(ctx, slog.String(string(constants.SessionIDHeader), sessionID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session ID stored by SessionIDMiddleware
func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(constants.SessionIDHeader).(string)
	return sessionID
}
