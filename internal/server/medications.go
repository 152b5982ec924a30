package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	medicationdomain "github.com/wellnesthq/wellnest/internal/medication/domain"
)

func (s *Server) CreateMedication(c *gin.Context) {
	var req medicationdomain.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.medicationSvc.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMedications(c *gin.Context) {
	resp, err := s.medicationSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListActiveMedications(c *gin.Context) {
	resp, err := s.medicationSvc.ListActive(c.Request.Context(), userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListUpcomingDoses(c *gin.Context) {
	loc := s.location(c)

	resp := s.medicationSvc.UpcomingToday(c.Request.Context(), userID(c), loc)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMedicationByID(c *gin.Context) {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.medicationSvc.Get(c.Request.Context(), userID(c), scheduleID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateMedication(c *gin.Context) {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req medicationdomain.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.medicationSvc.Update(c.Request.Context(), userID(c), scheduleID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteMedication(c *gin.Context) {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.medicationSvc.Delete(c.Request.Context(), userID(c), scheduleID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
