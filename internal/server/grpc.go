package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer wires srv into a gRPC server with request IDs, logging and
// panic recovery, and registers the health service. Both the overall status
// and the path service status start as SERVING.
func NewGRPCServer(srv *Server, enableReflection bool, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			requestIDInterceptor,
			loggingInterceptor(srv.logger),
			recoveryInterceptor(srv.logger),
		),
		grpc.ChainStreamInterceptor(
			streamLoggingInterceptor(srv.logger),
			streamRecoveryInterceptor(srv.logger),
		),
	}, opts...)

	grpcServer := grpc.NewServer(opts...)
	RegisterPathServiceServer(grpcServer, srv)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if enableReflection {
		reflection.Register(grpcServer)
		srv.logger.Info().Msg("gRPC reflection enabled")
	}
	return grpcServer, healthServer
}

// SetServing flips the health status of both the server and the path service
func SetServing(hs *health.Server, serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
}
