// Package health wraps the standard grpc_health_v1 service. It is this
// repository's only real gRPC surface: the introspection API is served
// over plain HTTP instead, since there is no bespoke .proto to generate
// a gRPC service from.
package health

import (
	"google.golang.org/grpc"

	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps the standard grpc health server for one process.
type Server struct {
	server *healthgrpc.Server
}

// NewServer creates a health server backed by a fresh grpc health server.
func NewServer() *Server {
	return &Server{
		server: healthgrpc.NewServer(),
	}
}

// InitService marks serviceName as SERVING.
func (h *Server) InitService(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown marks every registered service NOT_SERVING.
func (h *Server) Shutdown() {
	h.server.Shutdown()
}

// Register attaches the health service to grpc.
func (h *Server) Register(grpc *grpc.Server) {
	healthpb.RegisterHealthServer(grpc, h.server)
}
