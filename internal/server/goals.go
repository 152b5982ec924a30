package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type setCalorieGoalRequest struct {
	DailyCalorieGoal float64 `json:"daily_calorie_goal"`
}

func (s *Server) GetCalorieGoal(c *gin.Context) {
	resp, err := s.goalSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetCalorieGoal(c *gin.Context) {
	var req setCalorieGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	loc := s.location(c)

	resp, err := s.goalSvc.Set(c.Request.Context(), userID(c), req.DailyCalorieGoal, loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RefreshCalorieGoal(c *gin.Context) {
	loc := s.location(c)

	resp, err := s.goalSvc.Refresh(c.Request.Context(), userID(c), loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
