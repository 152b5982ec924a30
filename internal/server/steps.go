package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ingestStepsRequest struct {
	CumulativeSteps int64 `json:"cumulative_steps"`
}

func (s *Server) IngestSteps(c *gin.Context) {
	var req ingestStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	loc := s.location(c)

	resp, err := s.stepsSvc.Ingest(c.Request.Context(), userID(c), req.CumulativeSteps, loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListStepHistory(c *gin.Context) {
	resp, err := s.stepsSvc.History(c.Request.Context(), userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStepsToday(c *gin.Context) {
	loc := s.location(c)

	resp, err := s.stepsSvc.Today(c.Request.Context(), userID(c), loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
