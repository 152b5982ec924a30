// Package seed bootstraps reference data so a fresh install is usable
// without a manual catalog import.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	mealdomain "github.com/wellnesthq/wellnest/internal/meal/domain"
	"github.com/wellnesthq/wellnest/pkg/db"
	"gorm.io/gorm"
)

// starterFoods carries macros per 100 grams.
var starterFoods = []mealdomain.Food{
	{Name: "apple", Calories: 52, Fat: 0.2, Carbohydrates: 13.8, Protein: 0.3, Sugars: 10.4},
	{Name: "banana", Calories: 89, Fat: 0.3, Carbohydrates: 22.8, Protein: 1.1, Sugars: 12.2},
	{Name: "white rice", Calories: 130, Fat: 0.3, Carbohydrates: 28.2, Protein: 2.7, Sugars: 0.1},
	{Name: "chicken breast", Calories: 165, Fat: 3.6, Carbohydrates: 0, Protein: 31, Sugars: 0},
	{Name: "whole egg", Calories: 155, Fat: 11, Carbohydrates: 1.1, Protein: 13, Sugars: 1.1},
	{Name: "whole milk", Calories: 61, Fat: 3.3, Carbohydrates: 4.8, Protein: 3.2, Sugars: 5.1},
	{Name: "oats", Calories: 389, Fat: 6.9, Carbohydrates: 66.3, Protein: 16.9, Sugars: 0},
	{Name: "salmon", Calories: 208, Fat: 13, Carbohydrates: 0, Protein: 20, Sugars: 0},
	{Name: "broccoli", Calories: 34, Fat: 0.4, Carbohydrates: 6.6, Protein: 2.8, Sugars: 1.7},
	{Name: "peanut butter", Calories: 588, Fat: 50, Carbohydrates: 20, Protein: 25, Sugars: 9.2},
}

// EnsureStarterFoods inserts the default food catalog, skipping entries that
// already exist by name.
func EnsureStarterFoods(conn *gorm.DB, node *snowflake.Node) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, food := range starterFoods {
			var existing mealdomain.Food
			err := tx.Where("name = ?", food.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			food.ID = node.Generate()
			if err := tx.Create(&food).Error; err != nil {
				// Another replica seeded this name between check and insert.
				if db.IsDuplicateKeyErr(err) {
					continue
				}
				return err
			}
		}
		return nil
	})
}
