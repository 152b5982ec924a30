package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/clock"
	medicationdomain "github.com/wellnesthq/wellnest/internal/medication/domain"
	"github.com/wellnesthq/wellnest/internal/timewindow"
	"github.com/wellnesthq/wellnest/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
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

	genID        *snowflake.Node
	clock        clock.Clock
	schedulerepo repository.Repository[medicationdomain.Schedule]
}

func NewService(p ServiceParam) medicationdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("medication.service"),

		genID:        p.GenID,
		clock:        p.Clock,
		schedulerepo: repository.ProvideStore[medicationdomain.Schedule](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req medicationdomain.CreateScheduleRequest) (*medicationdomain.Schedule, error) {
	schedule, err := s.buildSchedule(userID, req)
	if err != nil {
		return nil, err
	}
	schedule.ID = s.genID.Generate()

	if err := s.schedulerepo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *Service) buildSchedule(userID snowflake.ID, req medicationdomain.CreateScheduleRequest) (*medicationdomain.Schedule, error) {
	name := formatMedicationName(req.Name)
	if name == "" {
		return nil, medicationdomain.ErrMissingMedicationName
	}

	intervalUnit := req.IntervalUnit
	if intervalUnit == "" {
		intervalUnit = medicationdomain.IntervalDaily
	}
	if _, ok := intervalUnit.Length(); !ok {
		return nil, medicationdomain.ErrScheduleMisconfigured
	}
	if req.DosesPerInterval < 1 {
		return nil, medicationdomain.ErrScheduleMisconfigured
	}

	firstIntake, err := parseTimestamp(req.FirstIntake, s.clock.Now())
	if err != nil {
		return nil, err
	}
	var stopTime *time.Time
	if strings.TrimSpace(req.StopTime) != "" {
		parsed, err := parseTimestamp(req.StopTime, time.Time{})
		if err != nil {
			return nil, err
		}
		if parsed.Before(firstIntake) {
			return nil, medicationdomain.ErrScheduleMisconfigured
		}
		stopTime = &parsed
	}

	schedule := &medicationdomain.Schedule{
		UserID:           userID,
		Name:             name,
		Route:            defaultString(req.Route, "oral"),
		DosageForm:       defaultString(req.DosageForm, "tablet"),
		DosageUnit:       defaultString(req.DosageUnit, "tablet"),
		DosageQuantity:   req.DosageQuantity,
		IntervalUnit:     intervalUnit,
		DosesPerInterval: req.DosesPerInterval,
		FirstIntake:      firstIntake,
		StopTime:         stopTime,
	}
	if schedule.DosageQuantity <= 0 {
		schedule.DosageQuantity = 1
	}
	if req.Warnings != nil {
		schedule.InteractionWarning = datatypes.JSONMap(req.Warnings)
	}
	return schedule, nil
}

// parseTimestamp accepts RFC 3339; a value without offset is taken as UTC.
func parseTimestamp(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if fallback.IsZero() {
			return time.Time{}, medicationdomain.ErrInvalidIntakeTime
		}
		return fallback.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, medicationdomain.ErrInvalidIntakeTime
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func formatMedicationName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (s *Service) Get(ctx context.Context, userID, scheduleID snowflake.ID) (*medicationdomain.Schedule, error) {
	schedule, err := s.schedulerepo.FindOne(ctx, &medicationdomain.Schedule{ID: scheduleID, UserID: userID})
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, medicationdomain.ErrScheduleNotFound
	}
	return schedule, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]medicationdomain.Schedule, error) {
	items, err := s.schedulerepo.Find(ctx, &medicationdomain.Schedule{UserID: userID}, "created_at ASC")
	if err != nil {
		return nil, err
	}
	return dereference(items), nil
}

func (s *Service) ListActive(ctx context.Context, userID snowflake.ID) ([]medicationdomain.Schedule, error) {
	now := s.clock.Now()
	var schedules []medicationdomain.Schedule
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("stop_time IS NULL OR stop_time >= ?", now).
		Order("created_at ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *Service) Update(ctx context.Context, userID, scheduleID snowflake.ID, req medicationdomain.CreateScheduleRequest) (*medicationdomain.Schedule, error) {
	existing, err := s.Get(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildSchedule(userID, req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.clock.Now()

	if err := s.schedulerepo.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, scheduleID snowflake.ID) error {
	if _, err := s.Get(ctx, userID, scheduleID); err != nil {
		return err
	}
	return s.schedulerepo.Delete(ctx, &medicationdomain.Schedule{ID: scheduleID, UserID: userID})
}

func (s *Service) UpcomingToday(ctx context.Context, userID snowflake.ID, loc *time.Location) []medicationdomain.UpcomingDose {
	if loc == nil {
		loc = time.UTC
	}
	now := s.clock.Now()
	today := timewindow.Today(now, loc)
	start, end := timewindow.DayWindow(today, loc)

	var schedules []medicationdomain.Schedule
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&schedules).Error
	if err != nil {
		// Best effort: an empty reminder list beats a failed request.
		s.log.Warn("upcoming dose lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return []medicationdomain.UpcomingDose{}
	}

	upcoming := make([]medicationdomain.UpcomingDose, 0)
	for _, schedule := range schedules {
		if !schedule.ActiveAt(start, end) {
			continue
		}
		for _, doseTime := range medicationdomain.OccurrencesInWindow(schedule, start, end) {
			if !doseTime.After(now) {
				continue
			}
			upcoming = append(upcoming, medicationdomain.UpcomingDose{
				MedicationName: schedule.Name,
				Route:          schedule.Route,
				DosageForm:     schedule.DosageForm,
				DosageQuantity: schedule.DosageQuantity,
				TimeForIntake:  doseTime.In(loc).Format("03:04 PM"),
				DoseTime:       doseTime,
			})
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DoseTime.Before(upcoming[j].DoseTime)
	})
	return upcoming
}

func dereference(items []*medicationdomain.Schedule) []medicationdomain.Schedule {
	schedules := make([]medicationdomain.Schedule, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		schedules = append(schedules, *item)
	}
	return schedules
}
