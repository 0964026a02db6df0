package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"scaledown/internal/auth"
	domainerrors "scaledown/internal/errors"
	"scaledown/internal/model"
	"scaledown/internal/repository"
)

const bcryptCost = 10

// Token is an issued access token.
type Token struct {
	AccessToken string `json:"token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthService handles registration and token issuance.
type AuthService interface {
	Register(ctx context.Context, userName, password string) (*model.User, error)
	Login(ctx context.Context, userName, password string) (*Token, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with hashed password.
func (s *authService) Register(ctx context.Context, userName, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByUserName(ctx, userName)
	if err == nil && existing != nil {
		return nil, domainerrors.ErrUserNameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		UserName:     userName,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerrors.ErrUserNameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login checks the password and issues an access token.
func (s *authService) Login(ctx context.Context, userName, password string) (*Token, error) {
	user, err := s.userRepo.FindByUserName(ctx, userName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domainerrors.ErrIncorrectPassword
	}

	token, _, err := s.jwtService.GenerateToken(user.ID, user.UserName)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtService.TTL() / time.Second),
	}, nil
}

// Logout revokes the token described by claims until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return domainerrors.ErrInvalidToken
	}
	return s.tokenStore.BlacklistAccessToken(ctx, claims.ID, auth.RemainingTTL(claims, time.Now()))
}
