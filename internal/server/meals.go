package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	mealdomain "github.com/wellnesthq/wellnest/internal/meal/domain"
)

type createMealRequest struct {
	FoodName    string  `json:"food_name"`
	MealType    string  `json:"meal_type"`
	PortionSize float64 `json:"portion_size"`
}

type updateMealRequest struct {
	MealType    string  `json:"meal_type"`
	PortionSize float64 `json:"portion_size"`
}

func (s *Server) CreateMeal(c *gin.Context) {
	var req createMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	loc := s.location(c)

	resp, err := s.mealSvc.Create(c.Request.Context(), userID(c), mealdomain.CreateMealRequest{
		FoodName:    strings.TrimSpace(req.FoodName),
		MealType:    mealdomain.MealType(req.MealType),
		PortionSize: req.PortionSize,
	}, loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMealsToday(c *gin.Context) {
	loc := s.location(c)

	resp, err := s.mealSvc.ListToday(c.Request.Context(), userID(c), loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMealByID(c *gin.Context) {
	mealID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.mealSvc.Get(c.Request.Context(), userID(c), mealID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateMeal(c *gin.Context) {
	mealID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	loc := s.location(c)

	resp, err := s.mealSvc.Update(c.Request.Context(), userID(c), mealID, mealdomain.UpdateMealRequest{
		MealType:    mealdomain.MealType(req.MealType),
		PortionSize: req.PortionSize,
	}, loc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteMeal(c *gin.Context) {
	mealID, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	loc := s.location(c)

	if err := s.mealSvc.Delete(c.Request.Context(), userID(c), mealID, loc); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListFoods(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))

	resp, err := s.mealSvc.ListFoods(c.Request.Context(), search)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
