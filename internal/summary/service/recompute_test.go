package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellnesthq/wellnest/internal/clock"
	goaldomain "github.com/wellnesthq/wellnest/internal/goal/domain"
	mealdomain "github.com/wellnesthq/wellnest/internal/meal/domain"
	stepsdomain "github.com/wellnesthq/wellnest/internal/steps/domain"
	summarydomain "github.com/wellnesthq/wellnest/internal/summary/domain"
	"github.com/wellnesthq/wellnest/internal/timewindow"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&summarydomain.DailySummary{},
		&mealdomain.Meal{},
		&stepsdomain.DailyRecord{},
		&goaldomain.CalorieGoal{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, clk clock.Clock) (summarydomain.Service, *snowflake.Node) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
	})
	return svc, node
}

func seedMeal(t *testing.T, db *gorm.DB, node *snowflake.Node, userID snowflake.ID, calories, protein float64, createdAt time.Time) {
	meal := mealdomain.Meal{
		ID:          node.Generate(),
		UserID:      userID,
		FoodID:      node.Generate(),
		FoodName:    "test food",
		MealType:    mealdomain.MealTypeLunch,
		PortionSize: 100,
		Calories:    calories,
		Protein:     protein,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&meal).Error)
}

func TestRecompute_AggregatesMealsAndSteps(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	date := timewindow.Date{Year: 2025, Month: 3, Day: 10}

	seedMeal(t, db, node, userID, 450, 30, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	seedMeal(t, db, node, userID, 650, 40, time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC))

	record := stepsdomain.DailyRecord{
		ID:     node.Generate(),
		UserID: userID,
		Date:   date,
		Steps:  6000,
	}
	record.Recalculate()
	require.NoError(t, db.Create(&record).Error)

	summary, err := svc.Recompute(ctx, userID, date, time.UTC)
	require.NoError(t, err)

	assert.InDelta(t, 1100, summary.TotalCaloriesConsumed, 1e-9)
	assert.InDelta(t, 70, summary.TotalProtein, 1e-9)
	assert.Equal(t, int64(6000), summary.TotalSteps)
	assert.InDelta(t, 240, summary.CaloriesBurnedBySteps, 1e-9)
	assert.InDelta(t, 2000-1100, summary.CaloriesRemaining, 1e-9)
	assert.InDelta(t, 1100-240, summary.NetCalories, 1e-9)
}

func TestRecompute_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	date := timewindow.Date{Year: 2025, Month: 3, Day: 10}

	seedMeal(t, db, node, userID, 500, 25, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	first, err := svc.Recompute(ctx, userID, date, time.UTC)
	require.NoError(t, err)
	second, err := svc.Recompute(ctx, userID, date, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TotalCaloriesConsumed, second.TotalCaloriesConsumed)
	assert.Equal(t, first.CaloriesRemaining, second.CaloriesRemaining)

	var count int64
	require.NoError(t, db.Model(&summarydomain.DailySummary{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecompute_ConcurrentTriggersConverge(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	date := timewindow.Date{Year: 2025, Month: 3, Day: 10}
	seedMeal(t, db, node, userID, 400, 20, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Recompute(ctx, userID, date, time.UTC)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var summaries []summarydomain.DailySummary
	require.NoError(t, db.Where("user_id = ?", userID).Find(&summaries).Error)
	require.Len(t, summaries, 1)
	assert.InDelta(t, 400, summaries[0].TotalCaloriesConsumed, 1e-9)
}

func TestRecompute_LocalDayAttribution(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	cairo := time.FixedZone("UTC+2", 2*60*60)

	// 23:30 UTC on Mar 10 is 01:30 local on Mar 11 in UTC+2.
	seedMeal(t, db, node, userID, 300, 10, time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))

	local11, err := svc.Recompute(ctx, userID, timewindow.Date{Year: 2025, Month: 3, Day: 11}, cairo)
	require.NoError(t, err)
	assert.InDelta(t, 300, local11.TotalCaloriesConsumed, 1e-9)

	local10, err := svc.Recompute(ctx, userID, timewindow.Date{Year: 2025, Month: 3, Day: 10}, cairo)
	require.NoError(t, err)
	assert.InDelta(t, 0, local10.TotalCaloriesConsumed, 1e-9)
}

func TestRecompute_CreatesDefaultGoal(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	date := timewindow.Date{Year: 2025, Month: 3, Day: 10}

	summary, err := svc.Recompute(ctx, userID, date, time.UTC)
	require.NoError(t, err)
	assert.InDelta(t, goaldomain.DefaultDailyCalorieGoal, summary.CaloriesRemaining, 1e-9)

	var goal goaldomain.CalorieGoal
	require.NoError(t, db.Where("user_id = ?", userID).First(&goal).Error)
	assert.InDelta(t, goaldomain.DefaultDailyCalorieGoal, goal.DailyCalorieGoal, 1e-9)
}

func TestNutrition_RemainingClampedAtZero(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	seedMeal(t, db, node, userID, 2600, 80, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	nutrition, err := svc.Nutrition(ctx, userID, time.UTC)
	require.NoError(t, err)

	assert.InDelta(t, 2600, nutrition.Calories.Consumed, 1e-9)
	assert.InDelta(t, 0, nutrition.Calories.Remaining, 1e-9)
	assert.Equal(t, "2025-03-10", nutrition.Date)
}

func TestGet_UsesLocalToday(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	// 23:00 UTC is already Mar 11 in UTC+2.
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	cairo := time.FixedZone("UTC+2", 2*60*60)

	summary, err := svc.Get(ctx, userID, cairo)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", summary.Date.String())
}
