package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"studyshare/internal/auth"
	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
)

const adminEmail = "admin@studyshare.local"

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (int64, error) {
	args := m.Called(ctx, id, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateActive(ctx context.Context, id uuid.UUID, active bool) (int64, error) {
	args := m.Called(ctx, id, active)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedRole  model.Role
		expectedError error
	}{
		{
			name:  "first login creates a student",
			email: "student@example.com",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "student@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "student@example.com", auth.RefreshTokenExpiry).Return(nil)
			},
			expectedRole: model.RoleStudent,
		},
		{
			name:  "first login with the admin email creates an admin",
			email: adminEmail,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, adminEmail).Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, adminEmail, auth.RefreshTokenExpiry).Return(nil)
			},
			expectedRole: model.RoleAdmin,
		},
		{
			name:  "email comparison ignores case and whitespace",
			email: "  Admin@StudyShare.local ",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, adminEmail).Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, adminEmail, auth.RefreshTokenExpiry).Return(nil)
			},
			expectedRole: model.RoleAdmin,
		},
		{
			name:  "existing student with the admin email is promoted",
			email: adminEmail,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				existing := &model.User{
					ID:       uuid.New(),
					Email:    adminEmail,
					Role:     model.RoleStudent,
					IsActive: true,
				}
				mRepo.On("FindByEmail", mock.Anything, adminEmail).Return(existing, nil)
				mRepo.On("UpdateRole", mock.Anything, existing.ID, model.RoleAdmin).Return(int64(1), nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, adminEmail, auth.RefreshTokenExpiry).Return(nil)
			},
			expectedRole: model.RoleAdmin,
		},
		{
			name:  "deactivated account cannot log in",
			email: "banned@example.com",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "banned@example.com").Return(&model.User{
					ID:       uuid.New(),
					Email:    "banned@example.com",
					Role:     model.RoleStudent,
					IsActive: false,
				}, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:  "creation race resolves to the winner's row",
			email: "racer@example.com",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				winner := &model.User{
					ID:       uuid.New(),
					Email:    "racer@example.com",
					Role:     model.RoleStudent,
					IsActive: true,
				}
				mRepo.On("FindByEmail", mock.Anything, "racer@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
				mRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
				mRepo.On("FindByEmail", mock.Anything, "racer@example.com").Return(winner, nil).Once()
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "racer@example.com", auth.RefreshTokenExpiry).Return(nil)
			},
			expectedRole: model.RoleStudent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService, mockTokenStore, adminEmail)

			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, "Some User", "")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.expectedRole, user.Role)

				claims, err := jwtService.ValidateToken(accessToken)
				assert.NoError(t, err)
				assert.Equal(t, user.ID.String(), claims.UserID)
				assert.Equal(t, tt.expectedRole, claims.Role)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{
		ID:       uuid.New(),
		Email:    "student@example.com",
		Role:     model.RoleStudent,
		IsActive: true,
	}
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(user)
	assert.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:  "valid refresh issues a fresh access token",
			token: refreshToken,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return(user.ID.String(), user.Email, nil)
				mRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
			},
		},
		{
			name:          "garbage token",
			token:         "not-a-jwt",
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: ErrInvalidRefreshToken,
		},
		{
			name:  "revoked token",
			token: refreshToken,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return("", "", assert.AnError)
			},
			expectedError: ErrInvalidRefreshToken,
		},
		{
			name:  "stored identity mismatch",
			token: refreshToken,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return(uuid.NewString(), user.Email, nil)
			},
			expectedError: ErrInvalidRefreshToken,
		},
		{
			name:  "deactivated since issuance",
			token: refreshToken,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				inactive := *user
				inactive.IsActive = false
				mToken.On("GetRefreshToken", mock.Anything, tokenID).Return(user.ID.String(), user.Email, nil)
				mRepo.On("FindByID", mock.Anything, user.ID).Return(&inactive, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			svc := NewAuthService(mockRepo, jwtService, mockTokenStore, adminEmail)
			accessToken, err := svc.Refresh(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: uuid.New(), Email: "student@example.com", Role: model.RoleStudent, IsActive: true}
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(user)
	assert.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	svc := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore, adminEmail)

	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	assert.ErrorIs(t, svc.Logout(context.Background(), "not-a-jwt"), ErrInvalidRefreshToken)

	mockTokenStore.AssertExpectations(t)
}
