// Package domain contains persistence models for the meal ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Food is a catalog entry with macros per 100 grams.
type Food struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Calories      float64      `gorm:"not null;default:0" json:"calories"`
	Fat           float64      `gorm:"not null;default:0" json:"fat"`
	Carbohydrates float64      `gorm:"not null;default:0" json:"carbohydrates"`
	Protein       float64      `gorm:"not null;default:0" json:"protein"`
	Sugars        float64      `gorm:"not null;default:0" json:"sugars"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (Food) TableName() string { return "foods" }

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	default:
		return false
	}
}

// Meal is one logged eating event. Macros are snapshotted at write time,
// scaled from the food's per-100g values by the portion size, so later
// catalog edits do not rewrite history.
type Meal struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID `gorm:"not null;index:idx_meals_user_created" json:"user_id"`
	FoodID        snowflake.ID `gorm:"not null" json:"food_id"`
	FoodName      string       `gorm:"type:text;not null" json:"food_name"`
	MealType      MealType     `gorm:"type:text;not null;default:snack" json:"meal_type"`
	PortionSize   float64      `gorm:"not null;default:100" json:"portion_size"`
	Calories      float64      `gorm:"not null;default:0" json:"calories"`
	Fat           float64      `gorm:"not null;default:0" json:"fat"`
	Carbohydrates float64      `gorm:"not null;default:0" json:"carbohydrates"`
	Protein       float64      `gorm:"not null;default:0" json:"protein"`
	Sugars        float64      `gorm:"not null;default:0" json:"sugars"`
	CreatedAt     time.Time    `gorm:"not null;index:idx_meals_user_created" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (Meal) TableName() string { return "meals" }

// ApplyPortion snapshots food macros onto the meal scaled by portion size in
// grams over the 100g reference.
func (m *Meal) ApplyPortion(food Food) {
	factor := m.PortionSize / 100
	m.FoodID = food.ID
	m.FoodName = food.Name
	m.Calories = food.Calories * factor
	m.Fat = food.Fat * factor
	m.Carbohydrates = food.Carbohydrates * factor
	m.Protein = food.Protein * factor
	m.Sugars = food.Sugars * factor
}
