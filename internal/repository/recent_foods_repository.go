package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"scaledown/internal/model"
)

// ErrVersionConflict is returned when a recent foods record changed between
// being read and being saved.
var ErrVersionConflict = errors.New("recent foods version conflict")

// RecentFoodsRepository defines recent foods persistence operations.
type RecentFoodsRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*model.RecentFoods, error)
	Save(ctx context.Context, recent *model.RecentFoods) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type recentFoodsRepository struct {
	db *gorm.DB
}

// NewRecentFoodsRepository creates a new recent foods repository.
func NewRecentFoodsRepository(db *gorm.DB) RecentFoodsRepository {
	return &recentFoodsRepository{db: db}
}

// FindByUser returns the user's record or gorm.ErrRecordNotFound.
func (r *recentFoodsRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.RecentFoods, error) {
	var recent model.RecentFoods
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&recent).Error; err != nil {
		return nil, err
	}
	return &recent, nil
}

// Save inserts a record that was never stored, or overwrites the foods of a
// stored one only if its version is unchanged since it was read. Either way
// the record's Version is advanced on success; ErrVersionConflict means the
// caller should reload and retry.
func (r *recentFoodsRepository) Save(ctx context.Context, recent *model.RecentFoods) error {
	if recent.ID == uuid.Nil {
		recent.Version = 1
		if err := r.db.WithContext(ctx).Create(recent).Error; err != nil {
			recent.ID = uuid.Nil
			recent.Version = 0
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrVersionConflict
			}
			return err
		}
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.RecentFoods{}).
		Where("id = ? AND version = ?", recent.ID, recent.Version).
		Updates(map[string]interface{}{
			"foods":   recent.Foods,
			"version": recent.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	recent.Version++
	return nil
}

// DeleteByUser removes the user's record if there is one.
func (r *recentFoodsRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RecentFoods{}).Error
}
