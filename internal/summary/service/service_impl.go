package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/clock"
	goaldomain "github.com/wellnesthq/wellnest/internal/goal/domain"
	"github.com/wellnesthq/wellnest/internal/keylock"
	mealdomain "github.com/wellnesthq/wellnest/internal/meal/domain"
	stepsdomain "github.com/wellnesthq/wellnest/internal/steps/domain"
	summarydomain "github.com/wellnesthq/wellnest/internal/summary/domain"
	"github.com/wellnesthq/wellnest/internal/timewindow"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock

	// recomputeLocks serializes the read-modify-write cycle per
	// (user, local date) so racing triggers cannot lose a write.
	recomputeLocks *keylock.Mutex
}

func NewService(p ServiceParam) summarydomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("summary.service"),

		genID: p.GenID,
		clock: p.Clock,

		recomputeLocks: keylock.New(),
	}
}

// Recompute rebuilds the aggregate for (userID, date) from its event sources.
// The function is pure given the underlying rows, so redundant or repeated
// calls converge on identical values.
func (s *Service) Recompute(ctx context.Context, userID snowflake.ID, date timewindow.Date, loc *time.Location) (*summarydomain.DailySummary, error) {
	if loc == nil {
		loc = time.UTC
	}

	unlock := s.recomputeLocks.Lock(fmt.Sprintf("%s:%s", userID, date))
	defer unlock()

	var summary *summarydomain.DailySummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recomputed, err := s.recomputeLocked(ctx, tx, userID, date, loc)
		if err != nil {
			return err
		}
		summary = recomputed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *Service) recomputeLocked(ctx context.Context, tx *gorm.DB, userID snowflake.ID, date timewindow.Date, loc *time.Location) (*summarydomain.DailySummary, error) {
	row, err := s.lockSummaryRow(ctx, tx, userID, date)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &summarydomain.DailySummary{
			ID:     s.genID.Generate(),
			UserID: userID,
			Date:   date,
		}
	}

	start, end := timewindow.DayWindow(date, loc)

	totals, err := s.sumMealsInWindow(ctx, tx, userID, start, end)
	if err != nil {
		return nil, err
	}
	row.TotalCaloriesConsumed = totals.calories
	row.TotalProtein = totals.protein
	row.TotalCarbs = totals.carbs
	row.TotalFats = totals.fats
	row.TotalSugars = totals.sugars

	steps, burned, err := s.stepTotalsFor(ctx, tx, userID, date)
	if err != nil {
		return nil, err
	}
	row.TotalSteps = steps
	row.CaloriesBurnedBySteps = burned

	goal, err := s.getOrCreateGoal(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	// Derived fields are rebuilt from scratch on every write.
	row.CaloriesRemaining = goal.DailyCalorieGoal - row.TotalCaloriesConsumed
	row.NetCalories = row.TotalCaloriesConsumed - row.CaloriesBurnedBySteps

	err = tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_calories_consumed", "total_protein", "total_carbs",
			"total_fats", "total_sugars", "total_steps",
			"calories_burned_by_steps", "calories_remaining", "net_calories",
			"updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	var stored summarydomain.DailySummary
	if err := tx.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Service) lockSummaryRow(ctx context.Context, tx *gorm.DB, userID snowflake.ID, date timewindow.Date) (*summarydomain.DailySummary, error) {
	var row summarydomain.DailySummary
	stmt := tx.WithContext(ctx)
	if dialect := tx.Dialector.Name(); dialect == "postgres" || dialect == "mysql" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := stmt.Where("user_id = ? AND date = ?", userID, date).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

type mealTotals struct {
	calories float64
	protein  float64
	carbs    float64
	fats     float64
	sugars   float64
}

// sumMealsInWindow aggregates the meal ledger over the absolute-time window
// [start, end) corresponding to the local day.
func (s *Service) sumMealsInWindow(ctx context.Context, tx *gorm.DB, userID snowflake.ID, start, end time.Time) (mealTotals, error) {
	var row struct {
		Calories float64
		Protein  float64
		Carbs    float64
		Fats     float64
		Sugars   float64
	}
	err := tx.WithContext(ctx).
		Model(&mealdomain.Meal{}).
		Select(
			"COALESCE(SUM(calories), 0) AS calories, " +
				"COALESCE(SUM(protein), 0) AS protein, " +
				"COALESCE(SUM(carbohydrates), 0) AS carbs, " +
				"COALESCE(SUM(fat), 0) AS fats, " +
				"COALESCE(SUM(sugars), 0) AS sugars",
		).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Scan(&row).Error
	if err != nil {
		return mealTotals{}, err
	}
	return mealTotals{
		calories: row.Calories,
		protein:  row.Protein,
		carbs:    row.Carbs,
		fats:     row.Fats,
		sugars:   row.Sugars,
	}, nil
}

func (s *Service) stepTotalsFor(ctx context.Context, tx *gorm.DB, userID snowflake.ID, date timewindow.Date) (int64, float64, error) {
	var record stepsdomain.DailyRecord
	err := tx.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return record.Steps, record.CaloriesBurned, nil
}

func (s *Service) getOrCreateGoal(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (*goaldomain.CalorieGoal, error) {
	goal := goaldomain.CalorieGoal{
		UserID:           userID,
		DailyCalorieGoal: goaldomain.DefaultDailyCalorieGoal,
	}
	err := tx.WithContext(ctx).
		Where(&goaldomain.CalorieGoal{UserID: userID}).
		Attrs(goal).
		FirstOrCreate(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID, loc *time.Location) (*summarydomain.DailySummary, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := timewindow.Today(s.clock.Now(), loc)
	return s.Recompute(ctx, userID, today, loc)
}

func (s *Service) Nutrition(ctx context.Context, userID snowflake.ID, loc *time.Location) (*summarydomain.NutritionSummary, error) {
	summary, err := s.Get(ctx, userID, loc)
	if err != nil {
		return nil, err
	}

	var goal goaldomain.CalorieGoal
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error; err != nil {
		return nil, err
	}

	return &summarydomain.NutritionSummary{
		Date: summary.Date.String(),
		Calories: summarydomain.MacroBreakdown{
			Consumed:  summary.TotalCaloriesConsumed,
			Goal:      goal.DailyCalorieGoal,
			Remaining: clampNonNegative(goal.DailyCalorieGoal - summary.TotalCaloriesConsumed),
		},
		Protein: summarydomain.MacroBreakdown{
			Consumed:  summary.TotalProtein,
			Goal:      goal.DailyProteinGoal,
			Remaining: clampNonNegative(goal.DailyProteinGoal - summary.TotalProtein),
		},
		Carbs: summarydomain.MacroBreakdown{
			Consumed:  summary.TotalCarbs,
			Goal:      goal.DailyCarbGoal,
			Remaining: clampNonNegative(goal.DailyCarbGoal - summary.TotalCarbs),
		},
		Fats: summarydomain.MacroBreakdown{
			Consumed:  summary.TotalFats,
			Goal:      goal.DailyFatGoal,
			Remaining: clampNonNegative(goal.DailyFatGoal - summary.TotalFats),
		},
		Steps: summary.TotalSteps,
	}, nil
}

func clampNonNegative(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}
