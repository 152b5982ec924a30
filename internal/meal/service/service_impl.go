package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wellnesthq/wellnest/internal/clock"
	mealdomain "github.com/wellnesthq/wellnest/internal/meal/domain"
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
	mealrepo   repository.Repository[mealdomain.Meal]
	foodrepo   repository.Repository[mealdomain.Food]
}

func NewService(p ServiceParam) mealdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("meal.service"),

		genID:      p.GenID,
		clock:      p.Clock,
		recomputer: p.Recomputer,
		mealrepo:   repository.ProvideStore[mealdomain.Meal](p.DB),
		foodrepo:   repository.ProvideStore[mealdomain.Food](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req mealdomain.CreateMealRequest, loc *time.Location) (*mealdomain.Meal, error) {
	foodName := strings.TrimSpace(req.FoodName)
	if foodName == "" {
		return nil, mealdomain.ErrMissingFoodName
	}

	mealType := req.MealType
	if mealType == "" {
		mealType = mealdomain.MealTypeSnack
	}
	if !mealType.Valid() {
		return nil, mealdomain.ErrInvalidMealType
	}

	portion := req.PortionSize
	if portion == 0 {
		portion = 100
	}
	if portion < 0 {
		return nil, mealdomain.ErrInvalidPortion
	}

	food, err := s.findFood(ctx, foodName)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	meal := &mealdomain.Meal{
		ID:          s.genID.Generate(),
		UserID:      userID,
		MealType:    mealType,
		PortionSize: portion,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	meal.ApplyPortion(*food)

	if err := s.mealrepo.Create(ctx, meal); err != nil {
		return nil, err
	}

	s.triggerRecompute(ctx, userID, meal.CreatedAt, loc)
	return meal, nil
}

func (s *Service) findFood(ctx context.Context, name string) (*mealdomain.Food, error) {
	var food mealdomain.Food
	err := s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&food).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mealdomain.ErrFoodNotFound
		}
		return nil, err
	}
	return &food, nil
}

func (s *Service) Get(ctx context.Context, userID, mealID snowflake.ID) (*mealdomain.Meal, error) {
	meal, err := s.mealrepo.FindOne(ctx, &mealdomain.Meal{ID: mealID, UserID: userID})
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, mealdomain.ErrMealNotFound
	}
	return meal, nil
}

func (s *Service) ListToday(ctx context.Context, userID snowflake.ID, loc *time.Location) (mealdomain.GroupedMeals, error) {
	if loc == nil {
		loc = time.UTC
	}
	today := timewindow.Today(s.clock.Now(), loc)
	start, end := timewindow.DayWindow(today, loc)

	var meals []mealdomain.Meal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}

	groups := mealdomain.GroupedMeals{
		mealdomain.MealTypeBreakfast: {},
		mealdomain.MealTypeLunch:     {},
		mealdomain.MealTypeDinner:    {},
		mealdomain.MealTypeSnack:     {},
	}
	for _, meal := range meals {
		groups[meal.MealType] = append(groups[meal.MealType], meal)
	}
	return groups, nil
}

func (s *Service) Update(ctx context.Context, userID, mealID snowflake.ID, req mealdomain.UpdateMealRequest, loc *time.Location) (*mealdomain.Meal, error) {
	meal, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	if req.MealType != "" {
		if !req.MealType.Valid() {
			return nil, mealdomain.ErrInvalidMealType
		}
		meal.MealType = req.MealType
	}
	if req.PortionSize != 0 {
		if req.PortionSize < 0 {
			return nil, mealdomain.ErrInvalidPortion
		}
		meal.PortionSize = req.PortionSize
		food, err := s.findFood(ctx, meal.FoodName)
		if err != nil {
			return nil, err
		}
		meal.ApplyPortion(*food)
	}
	meal.UpdatedAt = s.clock.Now()

	if err := s.mealrepo.Save(ctx, meal); err != nil {
		return nil, err
	}

	s.triggerRecompute(ctx, userID, meal.CreatedAt, loc)
	return meal, nil
}

func (s *Service) Delete(ctx context.Context, userID, mealID snowflake.ID, loc *time.Location) error {
	meal, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return err
	}

	if err := s.mealrepo.Delete(ctx, &mealdomain.Meal{ID: meal.ID, UserID: userID}); err != nil {
		return err
	}

	s.triggerRecompute(ctx, userID, meal.CreatedAt, loc)
	return nil
}

func (s *Service) ListFoods(ctx context.Context, search string) ([]mealdomain.Food, error) {
	stmt := s.db.WithContext(ctx).Order("name ASC")
	if search = strings.TrimSpace(search); search != "" {
		stmt = stmt.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	var foods []mealdomain.Food
	if err := stmt.Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// triggerRecompute invalidates the aggregate for the meal's UTC calendar
// day. The local-day attribution is restored by the time window at recompute
// time, so a UTC date here only ever costs one extra recompute, never a
// wrong total. Failures are logged and never surfaced to the meal writer.
func (s *Service) triggerRecompute(ctx context.Context, userID snowflake.ID, createdAt time.Time, loc *time.Location) {
	date := timewindow.Today(createdAt, time.UTC)
	if _, err := s.recomputer.Recompute(ctx, userID, date, loc); err != nil {
		s.log.Warn("daily summary recompute failed after meal write",
			zap.String("user_id", userID.String()),
			zap.String("date", date.String()),
			zap.Error(err),
		)
	}
}
