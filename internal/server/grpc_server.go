package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/oggyb/crush-reveal/internal/config"
	"github.com/oggyb/crush-reveal/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// GRPCServer wraps grpc.Server with the service interceptors and
// context driven shutdown.
type GRPCServer struct {
	server *grpc.Server
	addr   string
	log    *slog.Logger
}

// NewGRPCServer builds a gRPC server and registers all provided services.
// Unary calls pass through metrics, request logging and panic recovery,
// in that order.
func NewGRPCServer(cfg *config.Config, log *slog.Logger, m *metrics.Metrics, registrars ...Registrar) *GRPCServer {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			metricsInterceptor(m),
			loggingInterceptor(log),
			recoveryInterceptor(),
		),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	return &GRPCServer{server: grpcServer, addr: cfg.GRPCAddr(), log: log}
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *GRPCServer) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.log.Info("starting gRPC server", "addr", lis.Addr().String())
	return s.Serve(ctx, lis)
}

// Serve serves on lis. When ctx is done the server stops gracefully,
// falling back to a hard stop after shutdownTimeout.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(lis) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("stopping gRPC server")
	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		s.log.Warn("gRPC graceful stop timed out, forcing")
		s.server.Stop()
		<-stopped
	}
	return <-errCh
}
