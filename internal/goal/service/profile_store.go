package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	goaldomain "github.com/wellnesthq/wellnest/internal/goal/domain"
	"gorm.io/gorm"
)

// profileRow mirrors the account service's profile table. Only the fields
// goal derivation needs are mapped; the table itself is owned by the account
// collaborator.
type profileRow struct {
	UserID   snowflake.ID `gorm:"primaryKey"`
	WeightKG *float64
	HeightCM *float64
	Age      *int
	Gender   *string
}

func (profileRow) TableName() string { return "profiles" }

type gormProfileStore struct {
	db *gorm.DB
}

// NewProfileStore reads profiles from the shared database. A missing row is
// an empty profile, not an error.
func NewProfileStore(db *gorm.DB) goaldomain.ProfileStore {
	return &gormProfileStore{db: db}
}

func (s *gormProfileStore) GetProfile(ctx context.Context, userID snowflake.ID) (goaldomain.Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goaldomain.Profile{}, nil
		}
		return goaldomain.Profile{}, err
	}
	return goaldomain.Profile{
		WeightKG: row.WeightKG,
		HeightCM: row.HeightCM,
		Age:      row.Age,
		Gender:   row.Gender,
	}, nil
}
