package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"github.com/oggyb/crush-reveal/internal/app"
	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
)

// Registrar ties the Account service into the gRPC server and the HTTP router
type Registrar struct {
	service *Service
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{service: NewAccountService(appCtx)}
}

func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterAccountServiceServer(s, r.service)
}

// RegisterRoutes mounts POST /api/auth/signup.
func (r *Registrar) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/auth/signup", r.handleSignup)
}

func (r *Registrar) handleSignup(c *gin.Context) {
	var req pb.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.Abort(c, svcErr.InvalidArgument("malformed request body"))
		return
	}

	resp, err := r.service.Register(c.Request.Context(), &req)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
