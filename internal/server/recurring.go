package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
)

func (s *Server) CreateSchedule(c *gin.Context) {
	var req recurringdomain.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.recurringSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) ListSchedules(c *gin.Context) {
	resp, err := s.recurringSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) GetScheduleByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.recurringSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) UpdateSchedule(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req recurringdomain.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.recurringSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) DeleteSchedule(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.recurringSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}

// GenerateRecurring runs one materialization pass. An optional as_of date
// replays the run against a past or future day.
func (s *Server) GenerateRecurring(c *gin.Context) {
	var req struct {
		AsOf string `json:"as_of"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	var asOf time.Time
	if value := strings.TrimSpace(req.AsOf); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			AbortWithError(c, newValidationError("as_of", "invalid_date", "as_of must be YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	result, err := s.recurringSvc.Generate(c.Request.Context(), asOf)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, gin.H{
		"message": fmt.Sprintf("generated %d invoice(s)", result.Generated()),
		"result":  result,
	})
}
