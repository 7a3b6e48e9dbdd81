// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package inventoryapi

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the configuration for the inventory API client
type Config struct {
	// BaseURL is the root of the inventory application, e.g. https://rspace.example.org
	BaseURL string

	// Token is the bearer token sent with every request
	Token string

	// Timeout is the HTTP client timeout for API requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
}

// NewConfig creates a new inventory API configuration with the provided parameters
func NewConfig(baseURL, token, timeout string, maxRetries int, retryDelay string) (Config, error) {
	if baseURL == "" {
		return Config{}, fmt.Errorf("base URL is required for inventory API configuration")
	}
	if token == "" {
		return Config{}, fmt.Errorf("token is required for inventory API configuration")
	}

	if timeout == "" {
		timeout = "10s"
	}
	timeoutDuration, err := time.ParseDuration(timeout)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}

	if retryDelay == "" {
		retryDelay = "1s"
	}
	retryDelayDuration, err := time.ParseDuration(retryDelay)
	if err != nil {
		return Config{}, fmt.Errorf("invalid retry delay duration: %w", err)
	}

	return Config{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		Timeout:    timeoutDuration,
		MaxRetries: maxRetries,
		RetryDelay: retryDelayDuration,
	}, nil
}
