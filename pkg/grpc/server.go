// Package grpc runs the gRPC side port. It serves the standard
// grpc.health.v1.Health service, whose status follows the readiness checks
// (database, redis) so orchestrators can probe the API without HTTP.
//
//	srv := grpc.New(map[string]grpc.Check{"database": pingDB})
//	if err := srv.Start(config.GRPCPort()); err != nil { ... }
//	defer srv.Stop()
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/metrics"
)

var (
	handledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodhub",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "Completed gRPC calls by method and code.",
	}, []string{"method", "code"})

	handlingSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foodhub",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "gRPC call latency.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"method"})
)

func init() {
	metrics.MustRegister(handledTotal, handlingSeconds)
}

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Server wraps a grpc.Server with a health service driven by checks.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	checks map[string]Check

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds the server. Each check name is also exposed as a health
// service name; the empty service aggregates all of them.
func New(checks map[string]Check) *Server {
	s := &Server{
		srv: grpc.NewServer(
			grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
			grpc.MaxRecvMsgSize(4<<20),
		),
		health: health.NewServer(),
		checks: checks,
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)
	return s
}

// Probe runs every check once and updates the health statuses.
func (s *Server) Probe(ctx context.Context) bool {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	all := true
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.checks[name](cctx)
		cancel()

		st := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			all = false
			st = healthpb.HealthCheckResponse_NOT_SERVING
			logger.Warn("grpc: health check failing", "check", name, "error", err)
		}
		s.health.SetServingStatus(name, st)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !all {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return all
}

// Serve probes once, keeps probing every interval, and serves on lis until
// Stop.
func (s *Server) Serve(lis net.Listener, interval time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.Probe(ctx)
	go func() {
		defer close(s.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Probe(ctx)
			}
		}
	}()

	logger.Info("grpc server listening", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

// Start listens on port and serves in the background.
func (s *Server) Start(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("grpc: listen on :%s: %w", port, err)
	}
	go func() {
		if err := s.Serve(lis, 10*time.Second); err != nil {
			logger.Error("grpc: serve", "error", err)
		}
	}()
	return nil
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	s.srv.GracefulStop()
}

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return next(ctx, req)
}

func observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := next(ctx, req)
	code := status.Code(err)

	handledTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	handlingSeconds.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	logger.WithCtx(ctx).Debug("grpc: request", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start).String())
	return resp, err
}
