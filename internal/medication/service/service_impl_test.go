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
	medicationdomain "github.com/wellnesthq/wellnest/internal/medication/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&medicationdomain.Schedule{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, clk clock.Clock) (medicationdomain.Service, *snowflake.Node) {
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

func TestCreate_AppliesDefaults(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	schedule, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "  ibuprofen ",
		DosesPerInterval: 2,
		FirstIntake:      "2025-03-10T08:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ibuprofen", schedule.Name)
	assert.Equal(t, "oral", schedule.Route)
	assert.Equal(t, "tablet", schedule.DosageForm)
	assert.Equal(t, medicationdomain.IntervalDaily, schedule.IntervalUnit)
	assert.InDelta(t, 1, schedule.DosageQuantity, 1e-9)
	assert.Nil(t, schedule.StopTime)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()

	_, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-10T08:00:00Z",
	})
	assert.ErrorIs(t, err, medicationdomain.ErrMissingMedicationName)

	_, err = svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "aspirin",
		DosesPerInterval: 0,
		FirstIntake:      "2025-03-10T08:00:00Z",
	})
	assert.ErrorIs(t, err, medicationdomain.ErrScheduleMisconfigured)

	_, err = svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "aspirin",
		IntervalUnit:     "fortnightly",
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-10T08:00:00Z",
	})
	assert.ErrorIs(t, err, medicationdomain.ErrScheduleMisconfigured)

	_, err = svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "aspirin",
		DosesPerInterval: 1,
		FirstIntake:      "not-a-time",
	})
	assert.ErrorIs(t, err, medicationdomain.ErrInvalidIntakeTime)

	// Stop before first intake is a misconfiguration.
	_, err = svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "aspirin",
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-10T08:00:00Z",
		StopTime:         "2025-03-09T08:00:00Z",
	})
	assert.ErrorIs(t, err, medicationdomain.ErrScheduleMisconfigured)
}

func TestCreate_NaiveTimestampTreatedAsUTC(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	schedule, err := svc.Create(ctx, node.Generate(), medicationdomain.CreateScheduleRequest{
		Name:             "metformin",
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-10T09:30:00",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), schedule.FirstIntake)
}

func TestUpcomingToday_FiltersPastDoses(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	// Noon: the 08:00 dose is done, the 20:00 dose is still ahead.
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	_, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "amoxicillin",
		DosesPerInterval: 2,
		FirstIntake:      "2025-03-08T08:00:00Z",
	})
	require.NoError(t, err)

	upcoming := svc.UpcomingToday(ctx, userID, time.UTC)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Amoxicillin", upcoming[0].MedicationName)
	assert.Equal(t, "08:00 PM", upcoming[0].TimeForIntake)
	assert.Equal(t, time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), upcoming[0].DoseTime.UTC())
}

func TestUpcomingToday_LocalTimeFormatting(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	_, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "lisinopril",
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-08T16:00:00Z",
	})
	require.NoError(t, err)

	cairo := time.FixedZone("UTC+2", 2*60*60)
	upcoming := svc.UpcomingToday(ctx, userID, cairo)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "06:00 PM", upcoming[0].TimeForIntake)
}

func TestUpcomingToday_StoppedScheduleExcluded(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	_, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "course antibiotics",
		DosesPerInterval: 2,
		FirstIntake:      "2025-03-01T08:00:00Z",
		StopTime:         "2025-03-09T23:59:59Z",
	})
	require.NoError(t, err)

	upcoming := svc.UpcomingToday(ctx, userID, time.UTC)
	assert.Empty(t, upcoming)
}

func TestUpcomingToday_FutureScheduleExcluded(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	_, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "post-op painkillers",
		DosesPerInterval: 3,
		FirstIntake:      "2025-03-12T08:00:00Z",
	})
	require.NoError(t, err)

	upcoming := svc.UpcomingToday(ctx, userID, time.UTC)
	assert.Empty(t, upcoming)
}

func TestListActive_ExcludesStopped(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	_, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "ongoing",
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-01T08:00:00Z",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "finished",
		DosesPerInterval: 1,
		FirstIntake:      "2025-02-01T08:00:00Z",
		StopTime:         "2025-02-10T08:00:00Z",
	})
	require.NoError(t, err)

	active, err := svc.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ongoing", active[0].Name)
}

func TestUpdate_ReplacesSchedule(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	userID := node.Generate()
	created, err := svc.Create(ctx, userID, medicationdomain.CreateScheduleRequest{
		Name:             "vitamin d",
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-01T09:00:00Z",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, userID, created.ID, medicationdomain.CreateScheduleRequest{
		Name:             "vitamin d",
		IntervalUnit:     medicationdomain.IntervalWeekly,
		DosesPerInterval: 1,
		FirstIntake:      "2025-03-01T09:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, medicationdomain.IntervalWeekly, updated.IntervalUnit)
}

func TestDelete_UnknownSchedule(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clk := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	svc, node := newTestService(t, db, clk)

	err := svc.Delete(ctx, node.Generate(), node.Generate())
	assert.ErrorIs(t, err, medicationdomain.ErrScheduleNotFound)
}
