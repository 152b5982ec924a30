// Package domain contains the per-user per-day aggregate models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/timewindow"
)

// DailySummary is the running nutrition/activity total for one user and one
// local calendar day. All derived fields are recomputed in full on every
// write; nothing is incrementally patched.
type DailySummary struct {
	ID     snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID snowflake.ID    `gorm:"not null;uniqueIndex:idx_daily_summary_user_date" json:"user_id"`
	Date   timewindow.Date `gorm:"type:date;not null;uniqueIndex:idx_daily_summary_user_date" json:"date"`

	TotalCaloriesConsumed float64 `gorm:"not null;default:0" json:"total_calories_consumed"`
	TotalProtein          float64 `gorm:"not null;default:0" json:"total_protein"`
	TotalCarbs            float64 `gorm:"not null;default:0" json:"total_carbs"`
	TotalFats             float64 `gorm:"not null;default:0" json:"total_fats"`
	TotalSugars           float64 `gorm:"not null;default:0" json:"total_sugars"`

	TotalSteps            int64   `gorm:"not null;default:0" json:"total_steps"`
	CaloriesBurnedBySteps float64 `gorm:"not null;default:0" json:"calories_burned_by_steps"`

	// CaloriesRemaining = goal - consumed; NetCalories = consumed - burned.
	CaloriesRemaining float64 `gorm:"not null;default:0" json:"calories_remaining"`
	NetCalories       float64 `gorm:"not null;default:0" json:"net_calories"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DailySummary) TableName() string { return "daily_summaries" }

// MacroBreakdown pairs a consumed amount with its goal for one nutrient.
type MacroBreakdown struct {
	Consumed  float64 `json:"consumed"`
	Goal      float64 `json:"goal"`
	Remaining float64 `json:"remaining"`
}

// NutritionSummary is the per-macro view of a day, goals included.
type NutritionSummary struct {
	Date     string         `json:"date"`
	Calories MacroBreakdown `json:"calories"`
	Protein  MacroBreakdown `json:"protein"`
	Carbs    MacroBreakdown `json:"carbs"`
	Fats     MacroBreakdown `json:"fats"`
	Steps    int64          `json:"steps"`
}
