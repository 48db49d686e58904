package feedback

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"github.com/oggyb/crush-reveal/internal/app"
	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
)

// Registrar ties the Feedback service into the gRPC server and the HTTP router
type Registrar struct {
	service *Service
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{service: NewFeedbackService(appCtx)}
}

func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterFeedbackServiceServer(s, r.service)
}

// RegisterRoutes mounts POST /api/feedback.
func (r *Registrar) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/feedback", r.handleSubmit)
}

func (r *Registrar) handleSubmit(c *gin.Context) {
	var req pb.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.Abort(c, svcErr.InvalidArgument("malformed request body"))
		return
	}

	resp, err := r.service.SubmitFeedback(c.Request.Context(), &req)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
