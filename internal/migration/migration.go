// Package migration creates the schema on startup so a fresh database is
// usable out of the box for local and self-hosted environments.
package migration

import (
	"gorm.io/gorm"

	goaldomain "github.com/wellnesthq/wellnest/internal/goal/domain"
	mealdomain "github.com/wellnesthq/wellnest/internal/meal/domain"
	medicationdomain "github.com/wellnesthq/wellnest/internal/medication/domain"
	stepsdomain "github.com/wellnesthq/wellnest/internal/steps/domain"
	summarydomain "github.com/wellnesthq/wellnest/internal/summary/domain"
)

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&mealdomain.Food{},
		&mealdomain.Meal{},
		&stepsdomain.CounterState{},
		&stepsdomain.DailyRecord{},
		&medicationdomain.Schedule{},
		&goaldomain.CalorieGoal{},
		&summarydomain.DailySummary{},
	)
}
