package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellnesthq/wellnest/internal/clock"
	stepsdomain "github.com/wellnesthq/wellnest/internal/steps/domain"
	summarydomain "github.com/wellnesthq/wellnest/internal/summary/domain"
	"github.com/wellnesthq/wellnest/internal/timewindow"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recomputeStub struct {
	calls []string
}

func (r *recomputeStub) Recompute(ctx context.Context, userID snowflake.ID, date timewindow.Date, loc *time.Location) (*summarydomain.DailySummary, error) {
	r.calls = append(r.calls, userID.String()+":"+date.String())
	return &summarydomain.DailySummary{UserID: userID, Date: date}, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&stepsdomain.CounterState{},
		&stepsdomain.DailyRecord{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, clk clock.Clock) (stepsdomain.Service, *recomputeStub) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	stub := &recomputeStub{}
	svc := NewService(ServiceParam{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Recomputer: stub,
	})
	return svc, stub
}

func TestIngest_FirstReadingSetsBaseline(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc, stub := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	result, err := svc.Ingest(ctx, userID, 5000, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.DailySteps)
	assert.Equal(t, int64(5000), result.BaselineForToday)
	assert.False(t, result.IsNewDay)
	assert.Len(t, stub.calls, 1)
}

func TestIngest_IncreasingReadingsSameDay(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	_, err := svc.Ingest(ctx, userID, 5000, time.UTC)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	result, err := svc.Ingest(ctx, userID, 5600, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, int64(600), result.DailySteps)
	assert.Equal(t, int64(5000), result.BaselineForToday)
	assert.InDelta(t, 600*stepsdomain.CaloriesPerStep, result.Record.CaloriesBurned, 1e-9)
	assert.InDelta(t, 600*stepsdomain.StrideMeters/1000, result.Record.DistanceKM, 1e-9)

	// Still a single row for the day.
	var count int64
	require.NoError(t, db.Model(&stepsdomain.DailyRecord{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIngest_DeviceResetRestartsBaseline(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	_, err := svc.Ingest(ctx, userID, 500, time.UTC)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	result, err := svc.Ingest(ctx, userID, 300, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.DailySteps)
	assert.Equal(t, int64(300), result.BaselineForToday)
}

func TestIngest_DayRolloverCountsOvernightSteps(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	_, err := svc.Ingest(ctx, userID, 8000, time.UTC)
	require.NoError(t, err)

	// Next morning: steps since last night's final total belong to today.
	clk.Advance(10 * time.Hour)
	result, err := svc.Ingest(ctx, userID, 8200, time.UTC)
	require.NoError(t, err)

	assert.True(t, result.IsNewDay)
	assert.Equal(t, int64(8000), result.BaselineForToday)
	assert.Equal(t, int64(200), result.DailySteps)

	history, err := svc.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2025-03-11", history[0].Date.String())
	assert.Equal(t, "2025-03-10", history[1].Date.String())
}

func TestIngest_LocalDateFollowsTimezone(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	// 23:30 UTC is already the next day in UTC+2.
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
	svc, _ := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	cairo := time.FixedZone("UTC+2", 2*60*60)
	result, err := svc.Ingest(ctx, userID, 100, cairo)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", result.Record.Date.String())
}

func TestIngest_NegativeReadingRejected(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	_, err := svc.Ingest(ctx, userID, -1, time.UTC)
	assert.ErrorIs(t, err, stepsdomain.ErrNegativeReading)
}

func TestToday_NoRecord(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	_, err := svc.Today(ctx, userID, time.UTC)
	assert.ErrorIs(t, err, stepsdomain.ErrNoRecordToday)
}

func TestToday_ReturnsBaselineContext(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc, _ := newTestService(t, db, clk)

	node, _ := snowflake.NewNode(2)
	userID := node.Generate()

	_, err := svc.Ingest(ctx, userID, 4000, time.UTC)
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, userID, 4500, time.UTC)
	require.NoError(t, err)

	today, err := svc.Today(ctx, userID, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, int64(500), today.Record.Steps)
	assert.Equal(t, int64(4000), today.BaselineForToday)
	assert.Equal(t, "2025-03-10", today.BaselineDate)
}
