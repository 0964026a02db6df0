package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"scaledown/internal/cache"
	domainerrors "scaledown/internal/errors"
	"scaledown/internal/model"
	"scaledown/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes account operations of an authenticated user.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	RenameUser(ctx context.Context, id uuid.UUID, newUserName, password string) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo       repository.UserRepository
	recentRepo repository.RecentFoodsRepository
	cache      *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(repo repository.UserRepository, recentRepo repository.RecentFoodsRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, recentRepo: recentRepo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

// RenameUser changes the user name after checking the password. Any name
// already registered, the user's own included, is rejected.
func (s *userService) RenameUser(ctx context.Context, id uuid.UUID, newUserName, password string) (*model.User, error) {
	existing, err := s.repo.FindByUserName(ctx, newUserName)
	if err == nil && existing != nil {
		return nil, domainerrors.ErrUserNameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domainerrors.ErrIncorrectPassword
	}

	user.UserName = newUserName
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerrors.ErrUserNameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// DeleteUser removes the user and their recent foods. Meals are kept.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if err := s.recentRepo.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("delete recent foods: %w", err)
	}
	return nil
}
