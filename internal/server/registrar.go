package server

import (
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
)

// Registrar is a common interface for all gRPC service registrars
type Registrar interface {
	Register(s *grpc.Server)
}

// RouteRegistrar is implemented by services that also serve HTTP
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}
