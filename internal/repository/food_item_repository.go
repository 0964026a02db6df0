package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scaledown/internal/model"
)

// FoodItemRepository defines food item persistence operations.
type FoodItemRepository interface {
	Create(ctx context.Context, food *model.FoodItem) error
	Update(ctx context.Context, food *model.FoodItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FoodItem, error)
	FindByName(ctx context.Context, name string) (*model.FoodItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.FoodItem, error)
	SearchByName(ctx context.Context, prefix string, limit int) ([]model.FoodItem, error)
	UpsertByName(ctx context.Context, food *model.FoodItem) error
}

type foodItemRepository struct {
	db *gorm.DB
}

// NewFoodItemRepository creates a new food item repository.
func NewFoodItemRepository(db *gorm.DB) FoodItemRepository {
	return &foodItemRepository{db: db}
}

// Create creates a new food item.
func (r *foodItemRepository) Create(ctx context.Context, food *model.FoodItem) error {
	return r.db.WithContext(ctx).Create(food).Error
}

// Update saves every column of an existing food item.
func (r *foodItemRepository) Update(ctx context.Context, food *model.FoodItem) error {
	return r.db.WithContext(ctx).Save(food).Error
}

// Delete removes a food item. Meals and recent foods keep their references.
func (r *foodItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FoodItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a food item by ID.
func (r *foodItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FoodItem, error) {
	var food model.FoodItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// FindByName finds a food item by its exact name.
func (r *foodItemRepository) FindByName(ctx context.Context, name string) (*model.FoodItem, error) {
	var food model.FoodItem
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

// FindByIDs returns the food items that exist among ids, in no particular order.
func (r *foodItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.FoodItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var foods []model.FoodItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// SearchByName lists food items whose name starts with prefix, ordered by name.
func (r *foodItemRepository) SearchByName(ctx context.Context, prefix string, limit int) ([]model.FoodItem, error) {
	var foods []model.FoodItem
	q := r.db.WithContext(ctx).Order("name ASC").Limit(limit)
	if prefix != "" {
		q = q.Where("name LIKE ? ESCAPE '!'", escapeLike(prefix)+"%")
	}
	if err := q.Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// likeEscaper escapes LIKE wildcards with '!', which means the same in
// MySQL, Postgres and SQLite string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// UpsertByName inserts the food item or, when the name exists, overwrites its nutrition facts.
func (r *foodItemRepository) UpsertByName(ctx context.Context, food *model.FoodItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"serving_size", "serving_unit", "calories", "fats", "carbs", "proteins", "updated_at"}),
	}).Create(food).Error
}
