package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateScheduleRequest struct {
	Name             string         `json:"medication_name"`
	Route            string         `json:"route_of_administration"`
	DosageForm       string         `json:"dosage_form"`
	DosageUnit       string         `json:"dosage_unit_of_measure"`
	DosageQuantity   float64        `json:"dosage_quantity_of_units_per_time"`
	IntervalUnit     IntervalUnit   `json:"periodic_interval"`
	DosesPerInterval int            `json:"dosage_frequency"`
	FirstIntake      string         `json:"first_time_of_intake"`
	StopTime         string         `json:"stopped_by_datetime"`
	Warnings         map[string]any `json:"interaction_warning"`
}

// UpcomingDose is one dose of an active schedule later today.
type UpcomingDose struct {
	MedicationName string    `json:"medication_name"`
	Route          string    `json:"route_of_administration"`
	DosageForm     string    `json:"dosage_form"`
	DosageQuantity float64   `json:"dosage_quantity_of_units_per_time"`
	TimeForIntake  string    `json:"time_for_intake"`
	DoseTime       time.Time `json:"dose_time"`
}

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateScheduleRequest) (*Schedule, error)
	Get(ctx context.Context, userID, scheduleID snowflake.ID) (*Schedule, error)
	List(ctx context.Context, userID snowflake.ID) ([]Schedule, error)
	// ListActive returns schedules not yet stopped as of now.
	ListActive(ctx context.Context, userID snowflake.ID) ([]Schedule, error)
	Update(ctx context.Context, userID, scheduleID snowflake.ID, req CreateScheduleRequest) (*Schedule, error)
	Delete(ctx context.Context, userID, scheduleID snowflake.ID) error
	// UpcomingToday lists today's doses strictly after the current instant,
	// sorted by dose time. Lookup failures yield an empty list, not an error.
	UpcomingToday(ctx context.Context, userID snowflake.ID, loc *time.Location) []UpcomingDose
}

var (
	ErrScheduleNotFound      = errors.New("medication_not_found")
	ErrMissingMedicationName = errors.New("missing_medication_name")
	ErrScheduleMisconfigured = errors.New("schedule_misconfigured")
	ErrInvalidIntakeTime     = errors.New("invalid_intake_time")
)
