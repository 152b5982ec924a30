// Package domain contains calorie goal models and the profile contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultDailyCalorieGoal applies until a profile-derived goal exists.
const DefaultDailyCalorieGoal = 2000

// CalorieGoal is the per-user daily target. Macro targets are derived from
// the calorie goal by a fixed 30/40/30 split using 4/4/9 kcal per gram.
type CalorieGoal struct {
	UserID           snowflake.ID `gorm:"primaryKey" json:"user_id"`
	DailyCalorieGoal float64      `gorm:"not null;default:2000" json:"daily_calorie_goal"`
	DailyProteinGoal float64      `gorm:"not null;default:0" json:"daily_protein_goal"`
	DailyCarbGoal    float64      `gorm:"not null;default:0" json:"daily_carb_goal"`
	DailyFatGoal     float64      `gorm:"not null;default:0" json:"daily_fat_goal"`
	CreatedAt        time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updated_at"`
}

func (CalorieGoal) TableName() string { return "calorie_goals" }

// Profile is the subset of account data goal derivation needs. Any field may
// be absent; derivation falls back to the current goal when the profile is
// incomplete.
type Profile struct {
	WeightKG *float64
	HeightCM *float64
	Age      *int
	Gender   *string
}

// Complete reports whether every field required for BMR is present.
func (p Profile) Complete() bool {
	return p.WeightKG != nil && p.HeightCM != nil && p.Age != nil && p.Gender != nil
}

// ProfileStore is the external account collaborator.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID snowflake.ID) (Profile, error)
}

type Service interface {
	// Get returns the user's goal, creating the default one if absent.
	Get(ctx context.Context, userID snowflake.ID) (*CalorieGoal, error)
	// Refresh rederives the goal from the user's profile and triggers a
	// recompute of today's summary.
	Refresh(ctx context.Context, userID snowflake.ID, loc *time.Location) (*CalorieGoal, error)
	// Set stores an explicit calorie goal, rederives macro targets and
	// triggers a recompute of today's summary.
	Set(ctx context.Context, userID snowflake.ID, dailyCalories float64, loc *time.Location) (*CalorieGoal, error)
}

var ErrInvalidCalorieGoal = errors.New("invalid_calorie_goal")
