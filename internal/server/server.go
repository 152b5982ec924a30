package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wellnesthq/wellnest/internal/config"
	"github.com/wellnesthq/wellnest/internal/goal"
	goaldomain "github.com/wellnesthq/wellnest/internal/goal/domain"
	"github.com/wellnesthq/wellnest/internal/meal"
	mealdomain "github.com/wellnesthq/wellnest/internal/meal/domain"
	"github.com/wellnesthq/wellnest/internal/medication"
	medicationdomain "github.com/wellnesthq/wellnest/internal/medication/domain"
	"github.com/wellnesthq/wellnest/internal/steps"
	stepsdomain "github.com/wellnesthq/wellnest/internal/steps/domain"
	"github.com/wellnesthq/wellnest/internal/summary"
	summarydomain "github.com/wellnesthq/wellnest/internal/summary/domain"
	"github.com/wellnesthq/wellnest/internal/timewindow"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	summary.Module,
	goal.Module,
	meal.Module,
	medication.Module,
	steps.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	stepsSvc      stepsdomain.Service
	mealSvc       mealdomain.Service
	medicationSvc medicationdomain.Service
	summarySvc    summarydomain.Service
	goalSvc       goaldomain.Service
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config
	Log *zap.Logger

	StepsSvc      stepsdomain.Service
	MealSvc       mealdomain.Service
	MedicationSvc medicationdomain.Service
	SummarySvc    summarydomain.Service
	GoalSvc       goaldomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		log:    p.Log.Named("http"),

		stepsSvc:      p.StepsSvc,
		mealSvc:       p.MealSvc,
		medicationSvc: p.MedicationSvc,
		summarySvc:    p.SummarySvc,
		goalSvc:       p.GoalSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.UserRequired())

	// -------- Steps --------
	api.POST("/steps", s.IngestSteps)
	api.GET("/steps", s.ListStepHistory)
	api.GET("/steps/today", s.GetStepsToday)

	// -------- Meals --------
	api.POST("/meals", s.CreateMeal)
	api.GET("/meals/today", s.ListMealsToday)
	api.GET("/meals/:id", s.GetMealByID)
	api.PUT("/meals/:id", s.UpdateMeal)
	api.DELETE("/meals/:id", s.DeleteMeal)
	api.GET("/foods", s.ListFoods)

	// -------- Medications --------
	api.POST("/medications", s.CreateMedication)
	api.GET("/medications", s.ListMedications)
	api.GET("/medications/active", s.ListActiveMedications)
	api.GET("/medications/upcoming", s.ListUpcomingDoses)
	api.GET("/medications/:id", s.GetMedicationByID)
	api.PUT("/medications/:id", s.UpdateMedication)
	api.DELETE("/medications/:id", s.DeleteMedication)

	// -------- Daily summary --------
	api.GET("/summary/daily", s.GetDailySummary)
	api.GET("/summary/nutrition", s.GetNutritionSummary)

	// -------- Goals --------
	api.GET("/goals", s.GetCalorieGoal)
	api.PUT("/goals", s.SetCalorieGoal)
	api.POST("/goals/refresh", s.RefreshCalorieGoal)
}

// location resolves the request's timezone from the User-Timezone header.
// An absent or unparseable header falls back to the configured default, and
// a bad default falls back to UTC; a timezone problem never fails a request.
func (s *Server) location(c *gin.Context) *time.Location {
	if name := c.GetHeader(HeaderTimezone); name != "" {
		if loc, err := timewindow.LoadLocation(name); err == nil {
			return loc
		}
	}
	loc, err := timewindow.LoadLocation(s.cfg.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
