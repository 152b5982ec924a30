package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/clock"
	goaldomain "github.com/wellnesthq/wellnest/internal/goal/domain"
	summarydomain "github.com/wellnesthq/wellnest/internal/summary/domain"
	"github.com/wellnesthq/wellnest/internal/timewindow"
	"github.com/wellnesthq/wellnest/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	Profiles   goaldomain.ProfileStore
	Recomputer summarydomain.Recomputer
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	clock      clock.Clock
	profiles   goaldomain.ProfileStore
	recomputer summarydomain.Recomputer
	goalrepo   repository.Repository[goaldomain.CalorieGoal]
}

func NewService(p ServiceParam) goaldomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("goal.service"),

		clock:      p.Clock,
		profiles:   p.Profiles,
		recomputer: p.Recomputer,
		goalrepo:   repository.ProvideStore[goaldomain.CalorieGoal](p.DB),
	}
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*goaldomain.CalorieGoal, error) {
	goal := goaldomain.CalorieGoal{
		UserID:           userID,
		DailyCalorieGoal: goaldomain.DefaultDailyCalorieGoal,
	}
	goal.ApplyDerivedGoals()

	err := s.db.WithContext(ctx).
		Where(&goaldomain.CalorieGoal{UserID: userID}).
		Attrs(goal).
		FirstOrCreate(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *Service) Refresh(ctx context.Context, userID snowflake.ID, loc *time.Location) (*goaldomain.CalorieGoal, error) {
	goal, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// An incomplete profile keeps the current goal; derivation never
	// downgrades to the default.
	if calories, ok := goaldomain.DeriveDailyCalories(profile); ok {
		goal.DailyCalorieGoal = calories
	}
	goal.ApplyDerivedGoals()
	goal.UpdatedAt = s.clock.Now()

	if err := s.goalrepo.Save(ctx, goal); err != nil {
		return nil, err
	}

	s.triggerRecompute(ctx, userID, loc)
	return goal, nil
}

func (s *Service) Set(ctx context.Context, userID snowflake.ID, dailyCalories float64, loc *time.Location) (*goaldomain.CalorieGoal, error) {
	if dailyCalories <= 0 {
		return nil, goaldomain.ErrInvalidCalorieGoal
	}

	goal, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal.DailyCalorieGoal = dailyCalories
	goal.ApplyDerivedGoals()
	goal.UpdatedAt = s.clock.Now()

	if err := s.goalrepo.Save(ctx, goal); err != nil {
		return nil, err
	}

	s.triggerRecompute(ctx, userID, loc)
	return goal, nil
}

// Goal changes only invalidate the current day; historical summaries keep
// the goal that was in force when they were last computed.
func (s *Service) triggerRecompute(ctx context.Context, userID snowflake.ID, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	today := timewindow.Today(s.clock.Now(), loc)
	if _, err := s.recomputer.Recompute(ctx, userID, today, loc); err != nil {
		s.log.Warn("daily summary recompute failed after goal change",
			zap.String("user_id", userID.String()),
			zap.String("date", today.String()),
			zap.Error(err),
		)
	}
}
