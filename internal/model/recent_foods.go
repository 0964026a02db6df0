package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecentFood records the last time a user used a food item in a meal.
type RecentFood struct {
	FoodItemID uuid.UUID `json:"foodItem"`
	DateUsed   time.Time `json:"dateUsed"`
}

// RecentFoods is the per-user list of recently used food items.
// Version guards read-modify-write updates against concurrent writers.
type RecentFoods struct {
	ID        uuid.UUID                       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID                       `json:"user" gorm:"type:char(36);not null;uniqueIndex"`
	Foods     datatypes.JSONSlice[RecentFood] `json:"foods"`
	Version   int                             `json:"-" gorm:"not null;default:0"`
	UpdatedAt time.Time                       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (r *RecentFoods) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
