// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	config := Config{
		Timeout:      10 * time.Second,
		MaxRetries:   2,
		RetryDelay:   500 * time.Millisecond,
		RetryBackoff: true,
	}

	client := NewClient(config)

	if client.config.Timeout != config.Timeout {
		t.Errorf("Expected timeout %v, got %v", config.Timeout, client.config.Timeout)
	}
	if client.config.MaxRetries != config.MaxRetries {
		t.Errorf("Expected max retries %d, got %d", config.MaxRetries, client.config.MaxRetries)
	}
	if client.httpClient.Timeout != config.Timeout {
		t.Errorf("Expected HTTP client timeout %v, got %v", config.Timeout, client.httpClient.Timeout)
	}
}

func TestClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Expected JSON accept header, got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("Custom-Header") != "custom-value" {
			t.Errorf("Expected custom header, got %q", r.Header.Get("Custom-Header"))
		}

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"message": "success"}`))
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	}))
	defer server.Close()

	config := Config{
		Timeout:      5 * time.Second,
		MaxRetries:   1,
		RetryDelay:   100 * time.Millisecond,
		RetryBackoff: false,
	}

	client := NewClient(config)
	ctx := context.Background()

	headers := map[string]string{
		"Custom-Header": "custom-value",
	}

	resp, err := client.Request(ctx, http.MethodGet, server.URL, nil, headers)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code 200, got %d", resp.StatusCode)
	}

	expectedBody := `{"message": "success"}`
	if string(resp.Body) != expectedBody {
		t.Errorf("Expected body '%s', got '%s'", expectedBody, string(resp.Body))
	}
}

func TestClient_Get_NotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"error": "not found"}`))
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(DefaultConfig())

	_, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	if err == nil {
		t.Fatal("Expected error for 404 status, got none")
	}

	var retryableErr *RetryableError
	if !errors.As(err, &retryableErr) {
		t.Fatalf("Expected RetryableError, got %T", err)
	}
	if retryableErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", retryableErr.StatusCode)
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Errorf("Expected StatusCode 404, got %d", StatusCode(err))
	}
	if calls.Load() != 1 {
		t.Errorf("Expected client errors not to be retried, got %d calls", calls.Load())
	}
}

func TestClient_Retry_ServerError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, err := w.Write([]byte(`{"error": "server error"}`))
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"message": "success"}`))
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	}))
	defer server.Close()

	config := Config{
		Timeout:      5 * time.Second,
		MaxRetries:   3,
		RetryDelay:   10 * time.Millisecond,
		RetryBackoff: false,
	}

	client := NewClient(config)

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error after retries, got %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code 200, got %d", resp.StatusCode)
	}

	if calls.Load() != 3 {
		t.Errorf("Expected 3 calls (2 failures + 1 success), got %d", calls.Load())
	}
}

func TestClient_Post(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}

		body, _ := io.ReadAll(r.Body)
		expectedBody := `{"test": "data"}`
		if string(body) != expectedBody {
			t.Errorf("Expected body '%s', got '%s'", expectedBody, string(body))
		}

		// the body must survive a retry
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusCreated)
		_, err := w.Write([]byte(`{"created": true}`))
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	}))
	defer server.Close()

	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	client := NewClient(config)

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, []byte(`{"test": "data"}`), headers)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status code 201, got %d", resp.StatusCode)
	}
}

func TestClient_Unauthorized_RefreshesOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var fetches atomic.Int32
	auth := NewBearerAuthenticator(func(context.Context) (string, error) {
		if fetches.Add(1) == 1 {
			return "stale", nil
		}
		return "fresh", nil
	})

	config := DefaultConfig()
	config.Authenticator = auth
	client := NewClient(config)

	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code 200, got %d", resp.StatusCode)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 calls, got %d", calls.Load())
	}
	if fetches.Load() != 2 {
		t.Errorf("Expected 2 token fetches, got %d", fetches.Load())
	}
}

func TestClient_Unauthorized_GivesUpAfterRefresh(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.Authenticator = NewStaticBearer("token")
	client := NewClient(config)

	_, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	if StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("Expected 401 error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected a single resend after refresh, got %d calls", calls.Load())
	}
}

func TestClient_Unauthorized_RefreshFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	refreshErr := errors.New("identity provider down")
	var fetches atomic.Int32
	config := DefaultConfig()
	config.Authenticator = NewBearerAuthenticator(func(context.Context) (string, error) {
		if fetches.Add(1) == 1 {
			return "token", nil
		}
		return "", refreshErr
	})
	client := NewClient(config)

	_, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	if !errors.Is(err, refreshErr) {
		t.Errorf("Expected refresh error, got %v", err)
	}
}

func TestBearerAuthenticator_Header(t *testing.T) {
	auth := NewStaticBearer("abc")

	header, err := auth.Header(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if header != "Bearer abc" {
		t.Errorf("Expected 'Bearer abc', got %q", header)
	}

	empty := NewStaticBearer("")
	if _, err := empty.Header(context.Background()); err == nil {
		t.Error("Expected error for empty token")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", config.Timeout)
	}
	if config.MaxRetries != 2 {
		t.Errorf("Expected default max retries 2, got %d", config.MaxRetries)
	}
	if config.RetryDelay != 1*time.Second {
		t.Errorf("Expected default retry delay 1s, got %v", config.RetryDelay)
	}
	if !config.RetryBackoff {
		t.Error("Expected default retry backoff to be true")
	}
	if config.Authenticator != nil {
		t.Error("Expected no default authenticator")
	}
}
