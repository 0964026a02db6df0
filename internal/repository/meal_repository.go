package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scaledown/internal/model"
)

// MealRepository defines meal persistence operations.
// Every finder returns meals with their food list ordered and food items resolved.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	Replace(ctx context.Context, meal *model.Meal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Meal, error)
	FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Meal, error)
}

type mealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new meal repository.
func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) withFoods(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("FoodList", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("FoodList.FoodItem")
}

// Create inserts the meal and its food list in one transaction. Dates are
// stored in UTC; see FindByUserInRange.
func (r *mealRepository) Create(ctx context.Context, meal *model.Meal) error {
	meal.Date = meal.Date.UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(meal).Error; err != nil {
			return err
		}
		return createFoods(tx, meal)
	})
}

// Replace overwrites the meal's name, date and whole food list.
func (r *mealRepository) Replace(ctx context.Context, meal *model.Meal) error {
	meal.Date = meal.Date.UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Meal{}).Where("id = ?", meal.ID).Updates(map[string]interface{}{
			"name": meal.Name,
			"date": meal.Date,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("meal_id = ?", meal.ID).Delete(&model.MealFood{}).Error; err != nil {
			return err
		}
		return createFoods(tx, meal)
	})
}

func createFoods(tx *gorm.DB, meal *model.Meal) error {
	if len(meal.FoodList) == 0 {
		return nil
	}
	for i := range meal.FoodList {
		meal.FoodList[i].ID = 0
		meal.FoodList[i].MealID = meal.ID
		meal.FoodList[i].Position = i
	}
	return tx.Omit(clause.Associations).Create(&meal.FoodList).Error
}

// Delete removes a meal and its food list.
func (r *mealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", id).Delete(&model.MealFood{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Meal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindByID finds a meal by ID.
func (r *mealRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Meal, error) {
	var meal model.Meal
	if err := r.withFoods(ctx).Where("id = ?", id).First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// FindByUserInRange lists a user's meals dated in [start, end), oldest first.
// SQLite keeps times as text and compares them as strings, so the bounds
// must carry the same offset as the stored dates.
func (r *mealRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.Meal, error) {
	var meals []model.Meal
	err := r.withFoods(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start.UTC(), end.UTC()).
		Order("date ASC").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}
