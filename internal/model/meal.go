package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scaledown/internal/nutrition"
)

// Meal is a named, dated list of food portions owned by a user.
type Meal struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID  `json:"user" gorm:"type:char(36);not null;index:idx_meals_user_date,priority:1"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Date      time.Time  `json:"date" gorm:"not null;index:idx_meals_user_date,priority:2"`
	FoodList  []MealFood `json:"foodList" gorm:"foreignKey:MealID"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// MealFood is one portion of a food item within a meal.
// FoodItem is only populated when the meal was loaded with its food items
// resolved, and stays nil when the referenced item no longer exists.
type MealFood struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	MealID      uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Position    int       `json:"-" gorm:"not null"`
	FoodItemID  uuid.UUID `json:"foodItemId" gorm:"type:char(36);not null;index"`
	FoodItem    *FoodItem `json:"foodItem,omitempty" gorm:"foreignKey:FoodItemID"`
	ServingSize float64   `json:"servingSize" gorm:"not null"`
	ServingUnit string    `json:"servingUnit" gorm:"size:32;not null"`
}

// BeforeCreate sets UUID and default date before creating the record.
func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	return nil
}

// Totals computes the meal's nutrient totals from its resolved food items.
// The value is derived on every call and never stored.
func (m *Meal) Totals() nutrition.Totals {
	portions := make([]nutrition.Portion, 0, len(m.FoodList))
	for _, food := range m.FoodList {
		p := nutrition.Portion{ServingSize: food.ServingSize}
		if food.FoodItem != nil {
			p.Facts = food.FoodItem.Facts()
		}
		portions = append(portions, p)
	}
	return nutrition.Compute(portions)
}

// FoodItemIDs returns the referenced food item ids in food list order.
func (m *Meal) FoodItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.FoodList))
	for _, food := range m.FoodList {
		ids = append(ids, food.FoodItemID)
	}
	return ids
}
