package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyshare/internal/auth"
	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
	"studyshare/internal/repository"
)

// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired
// or revoked.
var ErrInvalidRefreshToken = fmt.Errorf("%w: invalid or expired refresh token", apperrors.ErrUnauthenticated)

// AuthService handles login, token refresh and logout.
type AuthService interface {
	// Login resolves or creates the user for the given email and issues an
	// access/refresh token pair. The designated admin email is elevated to
	// the admin role on every login.
	Login(ctx context.Context, email, name, avatar string) (accessToken, refreshToken string, user *model.User, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	adminEmail string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, adminEmail string) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		adminEmail: strings.ToLower(adminEmail),
	}
}

func (s *authService) Login(ctx context.Context, email, name, avatar string) (string, string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createUser(ctx, email, name, avatar)
		if err != nil {
			return "", "", nil, err
		}
	case err != nil:
		return "", "", nil, fmt.Errorf("find user: %w", err)
	default:
		if email == s.adminEmail && !user.IsAdmin() {
			if _, err := s.users.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
				return "", "", nil, fmt.Errorf("elevate admin: %w", err)
			}
			user.Role = model.RoleAdmin
		}
	}

	if !user.IsActive {
		return "", "", nil, apperrors.Forbidden("login with a deactivated account")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID.String(), user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// createUser registers a first-time login. A concurrent creation race on the
// unique email resolves by re-reading the winner's row.
func (s *authService) createUser(ctx context.Context, email, name, avatar string) (*model.User, error) {
	role := model.RoleStudent
	if email == s.adminEmail {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:    email,
		Name:     name,
		Avatar:   avatar,
		Role:     role,
		IsActive: true,
	}

	err := s.users.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, findErr := s.users.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, fmt.Errorf("%w: duplicate email", apperrors.ErrConflict)
		}
		return existing, nil
	}
	return nil, fmt.Errorf("create user: %w", err)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	// Re-read the user so role changes and deactivation take effect on the
	// next access token rather than surviving until refresh expiry.
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return "", apperrors.Forbidden("refresh with a deactivated account")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
