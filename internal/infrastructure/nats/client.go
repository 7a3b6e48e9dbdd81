// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSClient wraps the NATS connection and provides request/reply operations
type NATSClient struct {
	conn    *nats.Conn
	config  Config
	timeout time.Duration
}

// NATSClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type NATSClientInterface interface {
	Request(ctx context.Context, subject string, data []byte) ([]byte, error)
	IsReady(ctx context.Context) error
	Close() error
}

// Request sends data on subject and waits for the reply, bounded by the
// configured timeout
func (c *NATSClient) Request(ctx context.Context, subject string, data []byte) ([]byte, error) {
	if subject == "" || len(data) == 0 {
		slog.ErrorContext(ctx, "invalid NATS request",
			"subject", subject,
		)
		return nil, fmt.Errorf("invalid NATS request: subject and message must be set")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	natsResponse, errRequest := c.conn.RequestWithContext(ctx, subject, data)
	if errRequest != nil {
		slog.ErrorContext(ctx, "NATS request failed", "subject", subject, "error", errRequest)
		return nil, fmt.Errorf("NATS request failed: %w", errRequest)
	}

	slog.DebugContext(ctx, "received NATS response",
		"subject", subject,
		"bytes", len(natsResponse.Data),
	)

	return natsResponse.Data, nil
}

// IsReady reports whether the connection is established
func (c *NATSClient) IsReady(ctx context.Context) error {
	if c.conn == nil || !c.conn.IsConnected() {
		return fmt.Errorf("NATS connection not ready")
	}
	return nil
}

// Close gracefully closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	// Configure NATS connection options
	opts := []nats.Option{
		nats.Name("lfx-v2-inventory-search"),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
		}),
	}

	// Establish connection
	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	client := &NATSClient{
		conn:    conn,
		config:  config,
		timeout: config.Timeout,
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
