// Package server runs the API process: the HTTP listener and, when
// GRPC_PORT is set, the gRPC health port. Both stop gracefully when the
// context passed to Run is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/foodhub/pkg/grpc"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
)

// Options configures Run.
type Options struct {
	Addr            string
	GRPCPort        string
	Checks          map[string]grpc.Check
	ShutdownTimeout time.Duration
}

// Run serves h on opts.Addr until ctx is done, then drains in-flight
// requests for up to ShutdownTimeout.
func Run(ctx context.Context, h http.Handler, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}

	lis, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", opts.Addr, err)
	}
	return Serve(ctx, lis, h, opts)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, lis net.Listener, h http.Handler, opts Options) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var health *grpc.Server
	if opts.GRPCPort != "" {
		health = grpc.New(opts.Checks)
		if err := health.Start(opts.GRPCPort); err != nil {
			return err
		}
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", lis.Addr().String())
		errc <- srv.Serve(lis)
	}()

	select {
	case err := <-errc:
		if health != nil {
			health.Stop()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", opts.ShutdownTimeout.String())
	if health != nil {
		health.Stop()
	}

	sctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	<-errc
	return nil
}
