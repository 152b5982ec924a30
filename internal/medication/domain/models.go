// Package domain contains medication schedule models and the occurrence
// generator. Dose occurrences are always computed on demand, never stored.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type IntervalUnit string

const (
	IntervalDaily   IntervalUnit = "daily"
	IntervalWeekly  IntervalUnit = "weekly"
	IntervalMonthly IntervalUnit = "monthly"
)

// Length returns the duration of one repeat cycle. Monthly is a fixed
// 30-day approximation, not a calendar month.
func (u IntervalUnit) Length() (time.Duration, bool) {
	switch u {
	case IntervalDaily:
		return 24 * time.Hour, true
	case IntervalWeekly:
		return 7 * 24 * time.Hour, true
	case IntervalMonthly:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// Schedule is a recurring medication regimen. Doses are spread equally
// inside each repeat cycle, anchored at FirstIntake (stored in UTC).
type Schedule struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID snowflake.ID `gorm:"not null;index" json:"user_id"`

	Name           string  `gorm:"type:text;not null" json:"medication_name"`
	Route          string  `gorm:"type:text;not null;default:oral" json:"route_of_administration"`
	DosageForm     string  `gorm:"type:text;not null;default:tablet" json:"dosage_form"`
	DosageUnit     string  `gorm:"type:text;not null;default:tablet" json:"dosage_unit_of_measure"`
	DosageQuantity float64 `gorm:"not null;default:1" json:"dosage_quantity_of_units_per_time"`

	IntervalUnit     IntervalUnit `gorm:"type:text;not null;default:daily" json:"periodic_interval"`
	DosesPerInterval int          `gorm:"not null;default:1" json:"dosage_frequency"`
	FirstIntake      time.Time    `gorm:"not null" json:"first_time_of_intake"`
	StopTime         *time.Time   `json:"stopped_by_datetime"`

	// InteractionWarning is populated by the external drug-interaction
	// collaborator; this service only stores it.
	InteractionWarning datatypes.JSONMap `gorm:"type:jsonb" json:"interaction_warning"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Schedule) TableName() string { return "medication_schedules" }

// ActiveAt reports whether the schedule has started by end and has not been
// stopped before start.
func (s Schedule) ActiveAt(start, end time.Time) bool {
	if s.FirstIntake.After(end) {
		return false
	}
	if s.StopTime != nil && s.StopTime.Before(start) {
		return false
	}
	return true
}
