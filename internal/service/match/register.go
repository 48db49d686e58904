package match

import (
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"github.com/oggyb/crush-reveal/internal/app"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
)

// Registrar ties the Match service into the gRPC server and the HTTP router
type Registrar struct {
	service *Service
}

// NewRegistrar creates a new Registrar for the Match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{service: NewMatchService(appCtx)}
}

// Register attaches the Match service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterMatchServiceServer(s, r.service)
}

// RegisterRoutes mounts the HTTP handlers
func (r *Registrar) RegisterRoutes(router gin.IRouter) {
	r.service.RegisterRoutes(router)
}
