package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"studyshare/internal/model"
)

// MockUserLoader is a mock implementation of UserLoader.
type MockUserLoader struct {
	mock.Mock
}

func (m *MockUserLoader) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestLoadUser(t *testing.T) {
	activeUser := &model.User{
		ID:       uuid.New(),
		Email:    "student@example.com",
		Role:     model.RoleStudent,
		IsActive: true,
	}
	inactiveUser := &model.User{
		ID:       uuid.New(),
		Email:    "banned@example.com",
		Role:     model.RoleStudent,
		IsActive: false,
	}

	tokenFor := func(u *model.User) *jwt.Token {
		return &jwt.Token{Claims: &Claims{UserID: u.ID.String(), Email: u.Email, Role: u.Role}}
	}

	tests := []struct {
		name           string
		setup          func(echo.Context, *MockUserLoader)
		expectedStatus int
	}{
		{
			name: "active user passes through",
			setup: func(c echo.Context, m *MockUserLoader) {
				c.Set("user", tokenFor(activeUser))
				m.On("Get", mock.Anything, activeUser.ID).Return(activeUser, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing token",
			setup:          func(echo.Context, *MockUserLoader) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown subject",
			setup: func(c echo.Context, m *MockUserLoader) {
				c.Set("user", tokenFor(activeUser))
				m.On("Get", mock.Anything, activeUser.ID).Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "deactivated account",
			setup: func(c echo.Context, m *MockUserLoader) {
				c.Set("user", tokenFor(inactiveUser))
				m.On("Get", mock.Anything, inactiveUser.ID).Return(inactiveUser, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(MockUserLoader)
			c, rec := newContext()
			tt.setup(c, loader)

			err := LoadUser(loader)(okHandler)(c)

			if tt.expectedStatus == http.StatusOK {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)

				current, ok := CurrentUser(c)
				assert.True(t, ok)
				assert.Equal(t, activeUser.ID, current.ID)
			} else {
				httpErr, ok := err.(*echo.HTTPError)
				assert.True(t, ok)
				assert.Equal(t, tt.expectedStatus, httpErr.Code)
			}

			loader.AssertExpectations(t)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		user           *model.User
		expectedStatus int
	}{
		{
			name:           "admin passes through",
			user:           &model.User{ID: uuid.New(), Role: model.RoleAdmin, IsActive: true},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "student is rejected",
			user:           &model.User{ID: uuid.New(), Role: model.RoleStudent, IsActive: true},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing user",
			user:           nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext()
			if tt.user != nil {
				SetCurrentUser(c, tt.user)
			}

			err := RequireAdmin("perform an admin action")(okHandler)(c)

			if tt.expectedStatus == http.StatusOK {
				assert.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				httpErr, ok := err.(*echo.HTTPError)
				assert.True(t, ok)
				assert.Equal(t, tt.expectedStatus, httpErr.Code)
			}
		})
	}
}
