package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetDailySummary(c *gin.Context) {
	loc := s.location(c)

	resp, err := s.summarySvc.Get(c.Request.Context(), userID(c), loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetNutritionSummary(c *gin.Context) {
	loc := s.location(c)

	resp, err := s.summarySvc.Nutrition(c.Request.Context(), userID(c), loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
