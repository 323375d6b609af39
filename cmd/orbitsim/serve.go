package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/stream"
	"github.com/san-kum/orbitsim/internal/telemetry"
)

func runServe(cmd *cobra.Command, args []string) error {
	collector := telemetry.NewCollector()
	opts := stream.DefaultOptions()
	opts.Logger = slog.Default().With("component", "stream")
	opts.Counter = collector
	hub := stream.NewHub(opts)

	eng, _, err := newEngine(cmd, dynamo.WithTelemetry(collector), dynamo.WithObserver(hub))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(ctxOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go func() {
		interval := time.Second / time.Duration(max(frameRate, 1))
		if err := stream.Loop(ctx, eng, hub, interval); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("frame loop stopped", "err", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdown)
}
