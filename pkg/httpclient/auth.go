// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"errors"
	"sync"
)

// Authenticator supplies credentials for outgoing requests
type Authenticator interface {
	// Header returns the Authorization header value
	Header(ctx context.Context) (string, error)

	// Refresh renews the credentials after the server rejected them
	Refresh(ctx context.Context) error
}

// TokenFunc obtains a fresh bearer token
type TokenFunc func(ctx context.Context) (string, error)

// BearerAuthenticator caches a bearer token and fetches a new one on Refresh
type BearerAuthenticator struct {
	fetch TokenFunc

	mu    sync.Mutex
	token string
}

// NewBearerAuthenticator creates an authenticator obtaining tokens from fetch
func NewBearerAuthenticator(fetch TokenFunc) *BearerAuthenticator {
	return &BearerAuthenticator{fetch: fetch}
}

// NewStaticBearer creates an authenticator for a fixed token
func NewStaticBearer(token string) *BearerAuthenticator {
	return NewBearerAuthenticator(func(context.Context) (string, error) {
		return token, nil
	})
}

// Header implements Authenticator
func (a *BearerAuthenticator) Header(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token == "" {
		token, err := a.fetch(ctx)
		if err != nil {
			return "", err
		}
		if token == "" {
			return "", errors.New("empty bearer token")
		}
		a.token = token
	}
	return "Bearer " + a.token, nil
}

// Refresh implements Authenticator
func (a *BearerAuthenticator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	token, err := a.fetch(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("empty bearer token")
	}
	a.token = token
	return nil
}
