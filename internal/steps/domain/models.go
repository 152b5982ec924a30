// Package domain contains persistence models and contracts for the
// pedometer step tracking feature.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/timewindow"
)

const (
	// CaloriesPerStep is the fixed per-step energy estimate in kcal.
	CaloriesPerStep = 0.04
	// StrideMeters is the fixed stride length used for distance.
	StrideMeters = 0.762
)

// CounterState tracks the raw cumulative pedometer reading per user. The
// device counter is monotonic since boot; the baseline marks the reading
// treated as zero steps for the active local day.
type CounterState struct {
	UserID              snowflake.ID    `gorm:"primaryKey" json:"user_id"`
	LastCumulativeValue int64           `gorm:"not null;default:0" json:"last_cumulative_value"`
	CurrentDayBaseline  int64           `gorm:"not null;default:0" json:"current_day_baseline"`
	BaselineDate        timewindow.Date `gorm:"type:date" json:"baseline_date"`
	LastUpdated         timewindow.Date `gorm:"type:date" json:"last_updated"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}

func (CounterState) TableName() string { return "step_counter_states" }

// DailyRecord is the materialized step count for one user and local day.
type DailyRecord struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID    `gorm:"not null;uniqueIndex:idx_step_daily_user_date" json:"user_id"`
	Date            timewindow.Date `gorm:"type:date;not null;uniqueIndex:idx_step_daily_user_date" json:"date"`
	Steps           int64           `gorm:"not null;default:0" json:"steps"`
	CumulativeSteps int64           `gorm:"not null;default:0" json:"cumulative_steps"`
	CaloriesBurned  float64         `gorm:"not null;default:0" json:"calories_burned"`
	DistanceKM      float64         `gorm:"not null;default:0" json:"distance"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (DailyRecord) TableName() string { return "step_daily_records" }

// Recalculate rederives calories burned and distance from the step count.
// The three fields are always written together; the derived pair is never
// stored independently.
func (r *DailyRecord) Recalculate() {
	r.CaloriesBurned = float64(r.Steps) * CaloriesPerStep
	r.DistanceKM = float64(r.Steps) * StrideMeters / 1000
}
