package match

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
)

// RegisterRoutes mounts:
//
//	POST /api/match/submit
//	GET  /api/match/status/:userId
//	GET  /api/match/results/:userId
//	GET  /api/users/search?q=&branch=&exclude=&limit=&paginationToken=
//	GET  /api/users?branch=  (same handler)
func (s *Service) RegisterRoutes(r gin.IRouter) {
	m := r.Group("/api/match")
	m.POST("/submit", s.handleSubmit)
	m.GET("/status/:userId", s.handleStatus)
	m.GET("/results/:userId", s.handleResults)

	r.GET("/api/users/search", s.handleSearch)
	r.GET("/api/users", s.handleSearch)
}

func (s *Service) handleSubmit(c *gin.Context) {
	var req pb.SubmitPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.Abort(c, svcErr.InvalidArgument("malformed request body"))
		return
	}

	resp, err := s.SubmitPreferences(c.Request.Context(), &req)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Service) handleStatus(c *gin.Context) {
	resp, err := s.GetStatus(c.Request.Context(), &pb.GetStatusRequest{UserId: c.Param("userId")})
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleResults(c *gin.Context) {
	resp, err := s.GetResults(c.Request.Context(), &pb.GetResultsRequest{UserId: c.Param("userId")})
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleSearch(c *gin.Context) {
	var req pb.SearchUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		svcErr.Abort(c, svcErr.InvalidArgument("invalid query parameters"))
		return
	}

	resp, err := s.SearchUsers(c.Request.Context(), &req)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
