package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/app/repositories"
	"github.com/zaikahq/zaika/app/views"
	"github.com/zaikahq/zaika/pkg/auth"
	"github.com/zaikahq/zaika/pkg/logger"
)

// AuthService handles registration, login and token refresh.
type AuthService struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db, users: repositories.NewUserRepository(db)}
}

// Register creates a user with a bcrypt password hash and the customer role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	users := s.users.WithTx(s.db.WithContext(ctx))

	if _, err := users.FindByEmail(email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: models.RoleUser}
	if err := users.Create(&user); err != nil {
		return models.User{}, err
	}

	logger.WithCtx(ctx).Info("auth: user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (views.AuthTokens, error) {
	user, err := s.users.WithTx(s.db.WithContext(ctx)).FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return views.AuthTokens{}, ErrInvalidCredentials
	}
	if err != nil {
		return views.AuthTokens{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return views.AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair. The user is
// re-read so role changes since issuance take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (views.AuthTokens, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return views.AuthTokens{}, ErrInvalidCredentials
	}

	user, err := s.users.WithTx(s.db.WithContext(ctx)).FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return views.AuthTokens{}, ErrInvalidCredentials
	}
	if err != nil {
		return views.AuthTokens{}, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user models.User) (views.AuthTokens, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return views.AuthTokens{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return views.AuthTokens{}, err
	}
	return views.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
