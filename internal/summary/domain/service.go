package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/timewindow"
)

// Recomputer is the narrow contract upstream write paths (meals, steps,
// goals) use to invalidate an aggregate. Implementations are idempotent and
// safe to call redundantly for the same key.
type Recomputer interface {
	Recompute(ctx context.Context, userID snowflake.ID, date timewindow.Date, loc *time.Location) (*DailySummary, error)
}

type Service interface {
	Recomputer
	// Get lazily creates and recomputes today's summary for the user.
	Get(ctx context.Context, userID snowflake.ID, loc *time.Location) (*DailySummary, error)
	// Nutrition reports consumed versus goal per macro for today.
	Nutrition(ctx context.Context, userID snowflake.ID, loc *time.Location) (*NutritionSummary, error)
}
