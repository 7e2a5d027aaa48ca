package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyshare/internal/cache"
	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
	"studyshare/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user administration operations.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role model.Role) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type userService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(users repository.UserRepository, cacheClient *cache.Client) UserService {
	return &userService{users: users, cache: cacheClient}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, userCacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *userService) ChangeRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	if !role.Valid() {
		return apperrors.InvalidInput("unknown role")
	}

	rows, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if rows == 0 {
		if _, err := s.users.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
	}

	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (s *userService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	rows, err := s.users.UpdateActive(ctx, id, active)
	if err != nil {
		return fmt.Errorf("update active flag: %w", err)
	}
	if rows == 0 {
		if _, err := s.users.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
	}

	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}
