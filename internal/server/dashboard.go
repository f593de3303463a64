package server

import "github.com/gin-gonic/gin"

func (s *Server) GetDashboard(c *gin.Context) {
	resp, err := s.dashboardSvc.Summarize(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
