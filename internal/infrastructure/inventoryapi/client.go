// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package inventoryapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/httpclient"
)

const apiPrefix = "/api/inventory/v1"

// Client represents an inventory API client
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

// Search runs one search request with the canonical query string of params
func (c *Client) Search(ctx context.Context, params model.FetchParameters) (*SearchResult, error) {
	u, err := url.Parse(c.config.BaseURL + apiPrefix + "/search")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.RawQuery = params.QueryString()

	var result SearchResult
	if err := c.makeRequest(ctx, u.String(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRecord fetches the full details of one record
func (c *Client) GetRecord(ctx context.Context, globalID model.GlobalID) (*APIRecord, error) {
	collection, ok := recordCollection(globalID)
	if !ok {
		return nil, errors.NewValidation(fmt.Sprintf("malformed global id %q", globalID))
	}

	u := fmt.Sprintf("%s%s/%s/%d", c.config.BaseURL, apiPrefix, collection, globalID.ID())

	var record APIRecord
	if err := c.makeRequest(ctx, u, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// recordCollection returns the endpoint collection serving records of globalID
func recordCollection(globalID model.GlobalID) (string, bool) {
	switch globalID.Prefix() {
	case model.PrefixSample:
		return "samples", true
	case model.PrefixSubSample:
		return "subSamples", true
	case model.PrefixContainer:
		return "containers", true
	case model.PrefixBench:
		return "workbenches", true
	case model.PrefixTemplate:
		return "sampleTemplates", true
	}
	return "", false
}

// makeRequest performs the HTTP request to the inventory API using the generic HTTP client
func (c *Client) makeRequest(ctx context.Context, url string, result any) error {
	resp, err := c.httpClient.Request(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case 0:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.NewServiceUnavailable("inventory API unreachable", err)
		case http.StatusNotFound:
			return errors.NewNotFound("record not found")
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return errors.NewValidation("invalid request", err)
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return errors.NewServiceUnavailable("inventory API unavailable", err)
		default:
			return errors.NewUnexpected("unexpected error", err)
		}
	}

	if err := json.Unmarshal(resp.Body, result); err != nil {
		return errors.NewUnexpected("failed to decode response", err)
	}

	return nil
}

// IsReady checks if the inventory API is reachable
func (c *Client) IsReady(ctx context.Context) error {
	resp, err := c.httpClient.Request(ctx, http.MethodGet, c.config.BaseURL+apiPrefix+"/search?pageSize=1", nil, nil)
	if err != nil {
		return errors.NewServiceUnavailable("failed to check if inventory API is reachable", err)
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewServiceUnavailable("inventory API is not reachable", fmt.Errorf("status code: %d", resp.StatusCode))
	}

	return nil
}

// NewClient creates a new inventory API client
func NewClient(config Config) *Client {
	httpConfig := httpclient.Config{
		Timeout:       config.Timeout,
		MaxRetries:    config.MaxRetries,
		RetryDelay:    config.RetryDelay,
		RetryBackoff:  true,
		Authenticator: httpclient.NewStaticBearer(config.Token),
	}

	return &Client{
		config:     config,
		httpClient: httpclient.NewClient(httpConfig),
	}
}
