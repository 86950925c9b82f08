// Package server exposes the resolver's liveness over the standard gRPC
// health protocol.
package server

import (
	"context"
	"net"

	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ResolverService is the health service name reported for the resolver loop.
const ResolverService = "fairdice.Resolver"

// Server serves gRPC health checks.
type Server struct {
	listenAddr   string
	listener     net.Listener
	grpcServer   *grpc.Server
	healthServer *health.Server
}

func New(listenAddr string) *Server {
	s := &Server{
		listenAddr:   listenAddr,
		grpcServer:   grpc.NewServer(),
		healthServer: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.healthServer)
	s.SetServing(false)
	return s
}

// Listen binds the listen address. Run calls it when needed.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return errors.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	s.listener = lis
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.listenAddr
}

// SetServing flips the overall and resolver service status.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.healthServer.SetServingStatus("", status)
	s.healthServer.SetServingStatus(ResolverService, status)
}

// Run serves until ctx is done, then stops gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	logtrace.Info(ctx, "health server listening", logtrace.Fields{
		logtrace.FieldModule: "server",
		"address":            s.Addr(),
	})

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return errors.Errorf("serve health: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		s.healthServer.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	})
	return group.Wait()
}
