package server

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/config"
)

// GRPCServer is the gRPC listener with logging and auth interceptors,
// the standard health service and, outside production, reflection.
type GRPCServer struct {
	cfg    *config.Config
	srv    *grpc.Server
	health *health.Server
	log    *slog.Logger
}

// NewGRPCServer builds the server and registers all provided services.
func NewGRPCServer(cfg *config.Config, issuer *auth.Issuer, log *slog.Logger, registrars ...Registrar) *GRPCServer {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(log),
		AuthInterceptor(issuer),
	))

	for _, r := range registrars {
		r.Register(srv)
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	// reflection makes grpcurl usable against dev builds
	if cfg.App.ENV != "production" {
		reflection.Register(srv)
	}

	return &GRPCServer{cfg: cfg, srv: srv, health: hs, log: log}
}

// Addr is the configured listen address.
func (s *GRPCServer) Addr() string {
	return fmt.Sprintf("%s:%s", s.cfg.GRPC.Host, s.cfg.GRPC.Port)
}

// Serve blocks serving on lis.
func (s *GRPCServer) Serve(lis net.Listener) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return s.srv.Serve(lis)
}

// ListenAndServe listens on Addr and serves.
func (s *GRPCServer) ListenAndServe() error {
	lis, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	s.log.Info("starting gRPC server", "addr", s.Addr())
	return s.Serve(lis)
}

// Stop marks the server not serving and drains in-flight calls.
func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
