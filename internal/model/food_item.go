package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scaledown/internal/nutrition"
)

// FoodItem holds the nutrition facts of one serving of a food.
// Names are globally unique.
type FoodItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	ServingSize float64   `json:"servingSize" gorm:"not null"`
	ServingUnit string    `json:"servingUnit" gorm:"size:32;not null"`
	Calories    float64   `json:"calories" gorm:"not null"`
	Fats        float64   `json:"fats" gorm:"not null"`
	Carbs       float64   `json:"carbs" gorm:"not null"`
	Proteins    float64   `json:"proteins" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Facts returns the per-serving nutrient values used by the totals engine.
func (f *FoodItem) Facts() *nutrition.Facts {
	return &nutrition.Facts{
		ServingSize: f.ServingSize,
		Calories:    f.Calories,
		Fats:        f.Fats,
		Carbs:       f.Carbs,
		Proteins:    f.Proteins,
	}
}
