// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/inventoryapi"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/nats"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/opensearch"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/sqlite"
)

const defaultSessionIdleTimeout = 30 * time.Minute

// SearcherImpl injects the record searcher implementation
func SearcherImpl(ctx context.Context) port.RecordSearcher {

	var (
		recordSearcher port.RecordSearcher
		err            error
	)

	// Search source implementation configuration
	searchSource := os.Getenv("SEARCH_SOURCE")
	if searchSource == "" {
		searchSource = "inventoryapi"
	}

	switch searchSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock record searcher")
		recordSearcher = mock.NewMockRecordSearcher()

	case "inventoryapi":
		maxRetries := 3
		if raw := os.Getenv("INVENTORY_API_MAX_RETRIES"); raw != "" {
			maxRetries, err = strconv.Atoi(raw)
			if err != nil {
				log.Fatalf("invalid inventory API max retries value %s: %v", raw, err)
			}
		}

		apiConfig, err := inventoryapi.NewConfig(
			os.Getenv("INVENTORY_API_URL"),
			os.Getenv("INVENTORY_API_TOKEN"),
			os.Getenv("INVENTORY_API_TIMEOUT"),
			maxRetries,
			os.Getenv("INVENTORY_API_RETRY_DELAY"),
		)
		if err != nil {
			log.Fatalf("failed to create inventory API configuration: %v", err)
		}

		slog.InfoContext(ctx, "initializing inventory API record searcher",
			"base_url", apiConfig.BaseURL,
			"timeout", apiConfig.Timeout,
			"max_retries", apiConfig.MaxRetries,
		)

		recordSearcher, err = inventoryapi.NewRecordSearcher(ctx, apiConfig)
		if err != nil {
			log.Fatalf("failed to initialize inventory API record searcher: %v", err)
		}

	case "opensearch":
		opensearchURL := os.Getenv("OPENSEARCH_URL")
		if opensearchURL == "" {
			opensearchURL = "http://localhost:9200"
		}

		opensearchIndex := os.Getenv("OPENSEARCH_INDEX")
		if opensearchIndex == "" {
			opensearchIndex = "inventory"
		}

		slog.InfoContext(ctx, "initializing opensearch record searcher",
			"url", opensearchURL,
			"index", opensearchIndex,
		)
		opensearchConfig := opensearch.Config{
			URL:   opensearchURL,
			Index: opensearchIndex,
		}

		recordSearcher, err = opensearch.NewSearcher(ctx, opensearchConfig)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch searcher: %v", err)
		}

	case "nats":
		slog.InfoContext(ctx, "initializing NATS record searcher")
		recordSearcher, err = nats.NewRecordSearcher(ctx, natsConfig())
		if err != nil {
			log.Fatalf("failed to initialize NATS record searcher: %v", err)
		}

	default:
		log.Fatalf("unsupported search implementation: %s", searchSource)
	}

	return recordSearcher
}

func natsConfig() nats.Config {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	natsTimeout := os.Getenv("NATS_TIMEOUT")
	if natsTimeout == "" {
		natsTimeout = "10s"
	}
	natsTimeoutDuration, err := time.ParseDuration(natsTimeout)
	if err != nil {
		log.Fatalf("invalid NATS timeout duration: %v", err)
	}

	natsMaxReconnect := os.Getenv("NATS_MAX_RECONNECT")
	if natsMaxReconnect == "" {
		natsMaxReconnect = "3"
	}
	natsMaxReconnectInt, err := strconv.Atoi(natsMaxReconnect)
	if err != nil {
		log.Fatalf("invalid NATS max reconnect value %s: %v", natsMaxReconnect, err)
	}

	natsReconnectWait := os.Getenv("NATS_RECONNECT_WAIT")
	if natsReconnectWait == "" {
		natsReconnectWait = "2s"
	}
	natsReconnectWaitDuration, err := time.ParseDuration(natsReconnectWait)
	if err != nil {
		log.Fatalf("invalid NATS reconnect wait duration %s : %v", natsReconnectWait, err)
	}

	return nats.Config{
		URL:           natsURL,
		Timeout:       natsTimeoutDuration,
		MaxReconnect:  natsMaxReconnectInt,
		ReconnectWait: natsReconnectWaitDuration,
	}
}

// SavedSearchStoreImpl injects the local storage saved searches persist to
func SavedSearchStoreImpl(ctx context.Context) port.KeyValueStore {

	var (
		store port.KeyValueStore
		err   error
	)

	storeSource := os.Getenv("SAVED_SEARCH_SOURCE")
	if storeSource == "" {
		storeSource = "sqlite"
	}

	switch storeSource {
	case "memory":
		slog.InfoContext(ctx, "initializing in-memory saved search store")
		store = mock.NewMockKeyValueStore()

	case "sqlite":
		dbPath := os.Getenv("SAVED_SEARCH_DB_PATH")
		if dbPath == "" {
			dbPath = "data/saved-searches.db"
		}

		slog.InfoContext(ctx, "initializing sqlite saved search store", "path", dbPath)
		store, err = sqlite.Open(ctx, dbPath)
		if err != nil {
			log.Fatalf("failed to open saved search store: %v", err)
		}

	default:
		log.Fatalf("unsupported saved search store implementation: %s", storeSource)
	}

	return store
}

// SessionIdleTimeout is how long an unused search session is kept
func SessionIdleTimeout() time.Duration {
	raw := os.Getenv("SESSION_IDLE_TIMEOUT")
	if raw == "" {
		return defaultSessionIdleTimeout
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("invalid session idle timeout %s: %v", raw, err)
	}
	return timeout
}
