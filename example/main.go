package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/httpload"
	"github.com/jpalmerr/httpload/report"
)

func main() {
	// start mock server (see mock_server.go)
	go StartMockTargetServer(":9999")
	time.Sleep(100 * time.Millisecond)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var failures int
	r, err := httpload.New(
		httpload.WithURLs(
			"http://localhost:9999/ok",
			"http://localhost:9999/slow",
			"http://localhost:9999/flaky",
			"http://localhost:9999/missing",
		),
		httpload.WithCount(200),
		httpload.WithConcurrency(16),
		httpload.WithTimeout(2*time.Second),
		httpload.WithHeaders("User-Agent", "httpload-example"),
		httpload.WithLogger(logger),
		httpload.WithResultCallback(func(res httpload.ProbeResult) {
			// callbacks run on the collecting goroutine, no locking needed
			if !res.Success {
				failures++
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create runner", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := r.Run(ctx)
	if err != nil {
		slog.Error("load test failed", "error", err)
		os.Exit(1)
	}

	if err := report.Write(os.Stdout, rep, report.FormatText); err != nil {
		slog.Error("failed to write report", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\ncallback saw %d failed requests\n", failures)
}
