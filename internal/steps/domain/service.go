package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// IngestResult reports the outcome of one pedometer reading.
type IngestResult struct {
	Record           DailyRecord `json:"step_history"`
	DailySteps       int64       `json:"daily_steps_calculated"`
	BaselineForToday int64       `json:"baseline_for_today"`
	// IsNewDay is true when this reading rolled the baseline over to a new
	// local day.
	IsNewDay bool `json:"is_new_day"`
}

// TodayResult is the current day's record plus baseline context.
type TodayResult struct {
	Record           DailyRecord `json:"step_history"`
	BaselineForToday int64       `json:"baseline_for_today"`
	BaselineDate     string      `json:"baseline_date"`
}

type Service interface {
	// Ingest converts a raw cumulative reading into a daily step delta and
	// persists both the counter state and the daily record atomically.
	Ingest(ctx context.Context, userID snowflake.ID, rawCumulative int64, loc *time.Location) (*IngestResult, error)
	// History lists the user's daily records, newest first.
	History(ctx context.Context, userID snowflake.ID) ([]DailyRecord, error)
	// Today returns the current local day's record, or ErrNoRecordToday.
	Today(ctx context.Context, userID snowflake.ID, loc *time.Location) (*TodayResult, error)
}

var (
	ErrNegativeReading = errors.New("negative_reading")
	ErrNoRecordToday   = errors.New("no_step_record_today")
)
