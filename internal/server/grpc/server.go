// Package grpc exposes the timetable service over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/titansafe/timetable/internal/logging"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/server/services"
)

// TimetableService is what the handlers need from services.TimetableService.
type TimetableService interface {
	Compile(ctx context.Context, event, year string) (*services.CompileResult, error)
	GetTimetable(ctx context.Context, event, year string) (*models.TimetableDocument, error)
	ExportICS(ctx context.Context, event, year string) (string, error)
}

type GRPCServer struct {
	address    string
	timetables TimetableService
	logger     logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, ts TimetableService) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		timetables: ts,
	}
}

// newServer builds the grpc.Server with the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	RegisterTimetableServer(srv, s)
	return srv
}

// Run serves on the configured address until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
