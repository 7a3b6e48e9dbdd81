// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/linuxfoundation/lfx-v2-inventory-search/cmd/service"
	usecase "github.com/linuxfoundation/lfx-v2-inventory-search/internal/service"
	logging "github.com/linuxfoundation/lfx-v2-inventory-search/pkg/log"
)

const (
	defaultPort = "8080"
	// gracefulShutdownSeconds should be higher than the search collaborator
	// request timeout, and lower than the pod or liveness check's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

func init() {
	// slog is the standard library logger, we use it to log errors and
	logging.InitStructureLogConfig()
}

func main() {
	// Define command line flags, add any other flag required to configure the
	// service.
	var (
		dbgF = flag.Bool("d", false, "enable debug logging")
		port = flag.String("p", defaultPort, "listen port")
		bind = flag.String("bind", "*", "interface to bind on")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	ctx := context.Background()
	slog.InfoContext(ctx, "Starting inventory search service",
		"bind", *bind,
		"http-port", *port,
		"graceful-shutdown-seconds", gracefulShutdownSeconds,
	)

	// Initialize the collaborators based on configuration
	recordSearcher := service.SearcherImpl(ctx)
	savedSearchStore := service.SavedSearchStoreImpl(ctx)
	sessions := service.NewSessionRegistry(recordSearcher, usecase.Options{}, service.SessionIdleTimeout())

	inventorySearch := service.NewInventorySearch(sessions, recordSearcher, savedSearchStore)

	// Create channel used by both the signal handler and server goroutines
	// to notify the main goroutine when to stop the server.
	errc := make(chan error)

	// Setup interrupt handler. This optional step configures the process so
	// that SIGINT and SIGTERM signals cause the services to stop gracefully.
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)

	// Start the servers and send errors (if any) to the error channel.
	addr := ":" + *port
	if *bind != "*" {
		addr = *bind + ":" + *port
	}

	handleHTTPServer(ctx, addr, inventorySearch, &wg, errc, *dbgF)
	sessions.Run(ctx, &wg)

	// Wait for signal.
	slog.InfoContext(ctx, "received shutdown signal, stopping servers",
		"signal", <-errc,
	)

	// Send cancellation signal to the goroutines.
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.InfoContext(ctx, "graceful shutdown completed")
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "graceful shutdown timed out")
	}

	// Close the collaborators once no request can reach them
	closeAll(shutdownCtx,
		namedCloser{"record searcher", recordSearcher},
		namedCloser{"saved search store", savedSearchStore},
	)

	slog.InfoContext(ctx, "exited")
	if err := logging.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
}

type namedCloser struct {
	name     string
	resource any
}

// closeAll closes every resource that holds a connection or file
func closeAll(ctx context.Context, resources ...namedCloser) {
	for _, r := range resources {
		closer, ok := r.resource.(io.Closer)
		if !ok {
			continue
		}
		slog.InfoContext(ctx, "closing "+r.name)
		if err := closer.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close "+r.name, "error", err)
		}
	}
}
