package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/clock"
	"github.com/wellnesthq/wellnest/internal/keylock"
	stepsdomain "github.com/wellnesthq/wellnest/internal/steps/domain"
	summarydomain "github.com/wellnesthq/wellnest/internal/summary/domain"
	"github.com/wellnesthq/wellnest/internal/timewindow"
	"github.com/wellnesthq/wellnest/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Recomputer summarydomain.Recomputer
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	clock      clock.Clock
	recomputer summarydomain.Recomputer
	recordrepo repository.Repository[stepsdomain.DailyRecord]

	// ingestLocks serializes Ingest per user: one device, bursty readings.
	ingestLocks *keylock.Mutex
}

func NewService(p ServiceParam) stepsdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("steps.service"),

		genID:      p.GenID,
		clock:      p.Clock,
		recomputer: p.Recomputer,
		recordrepo: repository.ProvideStore[stepsdomain.DailyRecord](p.DB),

		ingestLocks: keylock.New(),
	}
}

func (s *Service) Ingest(ctx context.Context, userID snowflake.ID, rawCumulative int64, loc *time.Location) (*stepsdomain.IngestResult, error) {
	if rawCumulative < 0 {
		return nil, stepsdomain.ErrNegativeReading
	}
	if loc == nil {
		loc = time.UTC
	}

	unlock := s.ingestLocks.Lock(userID.String())
	defer unlock()

	localToday := timewindow.Today(s.clock.Now(), loc)

	var result *stepsdomain.IngestResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applied, err := s.applyReading(ctx, tx, userID, rawCumulative, localToday)
		if err != nil {
			return err
		}
		result = applied
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort: the reading is committed; a recompute failure must not
	// surface to the device.
	if _, err := s.recomputer.Recompute(ctx, userID, localToday, loc); err != nil {
		s.log.Warn("daily summary recompute failed after step ingest",
			zap.String("user_id", userID.String()),
			zap.String("date", localToday.String()),
			zap.Error(err),
		)
	}

	return result, nil
}

// applyReading runs the baseline algorithm inside one transaction so the
// counter state and the daily record never diverge.
func (s *Service) applyReading(ctx context.Context, tx *gorm.DB, userID snowflake.ID, rawCumulative int64, localToday timewindow.Date) (*stepsdomain.IngestResult, error) {
	state, err := s.loadState(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	var dailySteps int64
	isNewDay := false

	switch {
	case state == nil:
		// First reading ever: the device total becomes today's baseline.
		state = &stepsdomain.CounterState{
			UserID:             userID,
			CurrentDayBaseline: rawCumulative,
			BaselineDate:       localToday,
		}
		dailySteps = 0
	case !state.BaselineDate.Equal(localToday):
		// New local day: yesterday's last total becomes the new baseline so
		// steps taken after the last reading of yesterday still count today.
		state.CurrentDayBaseline = state.LastCumulativeValue
		state.BaselineDate = localToday
		dailySteps = rawCumulative - state.CurrentDayBaseline
		isNewDay = true
	default:
		dailySteps = rawCumulative - state.CurrentDayBaseline
	}

	if dailySteps < 0 {
		// Device rebooted mid-day; the fresh counter restarts the baseline.
		state.CurrentDayBaseline = rawCumulative
		state.BaselineDate = localToday
		dailySteps = 0
	}

	state.LastCumulativeValue = rawCumulative
	state.LastUpdated = localToday

	if err := tx.WithContext(ctx).Save(state).Error; err != nil {
		return nil, err
	}

	record, err := s.upsertDailyRecord(ctx, tx, userID, localToday, dailySteps, rawCumulative)
	if err != nil {
		return nil, err
	}

	return &stepsdomain.IngestResult{
		Record:           *record,
		DailySteps:       dailySteps,
		BaselineForToday: state.CurrentDayBaseline,
		IsNewDay:         isNewDay,
	}, nil
}

func (s *Service) loadState(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (*stepsdomain.CounterState, error) {
	var state stepsdomain.CounterState
	stmt := tx.WithContext(ctx)
	if dialect := tx.Dialector.Name(); dialect == "postgres" || dialect == "mysql" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := stmt.Where("user_id = ?", userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (s *Service) upsertDailyRecord(ctx context.Context, tx *gorm.DB, userID snowflake.ID, date timewindow.Date, dailySteps, rawCumulative int64) (*stepsdomain.DailyRecord, error) {
	record := &stepsdomain.DailyRecord{
		ID:              s.genID.Generate(),
		UserID:          userID,
		Date:            date,
		Steps:           dailySteps,
		CumulativeSteps: rawCumulative,
	}
	record.Recalculate()

	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"steps", "cumulative_steps", "calories_burned", "distance_km", "updated_at",
		}),
	}).Create(record).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the surviving row, not the candidate.
	var stored stepsdomain.DailyRecord
	if err := tx.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Service) History(ctx context.Context, userID snowflake.ID) ([]stepsdomain.DailyRecord, error) {
	items, err := s.recordrepo.Find(ctx, &stepsdomain.DailyRecord{UserID: userID}, "date DESC")
	if err != nil {
		return nil, err
	}
	records := make([]stepsdomain.DailyRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}
	return records, nil
}

func (s *Service) Today(ctx context.Context, userID snowflake.ID, loc *time.Location) (*stepsdomain.TodayResult, error) {
	if loc == nil {
		loc = time.UTC
	}
	localToday := timewindow.Today(s.clock.Now(), loc)

	record, err := s.recordrepo.FindOne(ctx, &stepsdomain.DailyRecord{UserID: userID, Date: localToday})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, stepsdomain.ErrNoRecordToday
	}

	result := &stepsdomain.TodayResult{Record: *record}

	var state stepsdomain.CounterState
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	if err == nil {
		result.BaselineForToday = state.CurrentDayBaseline
		result.BaselineDate = state.BaselineDate.String()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return result, nil
}
