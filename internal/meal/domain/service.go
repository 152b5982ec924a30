package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateMealRequest struct {
	FoodName    string   `json:"food_name"`
	MealType    MealType `json:"meal_type"`
	PortionSize float64  `json:"portion_size"`
}

type UpdateMealRequest struct {
	MealType    MealType `json:"meal_type"`
	PortionSize float64  `json:"portion_size"`
}

// GroupedMeals is today's ledger keyed by meal type.
type GroupedMeals map[MealType][]Meal

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateMealRequest, loc *time.Location) (*Meal, error)
	Get(ctx context.Context, userID, mealID snowflake.ID) (*Meal, error)
	// ListToday groups the current local day's meals by meal type.
	ListToday(ctx context.Context, userID snowflake.ID, loc *time.Location) (GroupedMeals, error)
	Update(ctx context.Context, userID, mealID snowflake.ID, req UpdateMealRequest, loc *time.Location) (*Meal, error)
	Delete(ctx context.Context, userID, mealID snowflake.ID, loc *time.Location) error
	ListFoods(ctx context.Context, search string) ([]Food, error)
}

var (
	ErrFoodNotFound    = errors.New("food_not_found")
	ErrMealNotFound    = errors.New("meal_not_found")
	ErrInvalidMealType = errors.New("invalid_meal_type")
	ErrInvalidPortion  = errors.New("invalid_portion_size")
	ErrMissingFoodName = errors.New("missing_food_name")
)
