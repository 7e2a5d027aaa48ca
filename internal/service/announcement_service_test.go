package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
)

// MockAnnouncementRepository is a mock implementation of AnnouncementRepository.
type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	args := m.Called(ctx, announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) ListActive(ctx context.Context) ([]model.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Announcement), args.Error(1)
}

func (m *MockAnnouncementRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnnouncementRepository) Deactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func TestAnnouncementService_Create(t *testing.T) {
	admin := newTestUser(model.RoleAdmin)

	t.Run("empty type defaults to info", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Announcement")).Return(nil)

		svc := NewAnnouncementService(mockRepo)
		announcement, err := svc.Create(context.Background(), CreateAnnouncementInput{
			Title:   "Welcome",
			Content: "Hello everyone",
		}, admin)

		assert.NoError(t, err)
		assert.Equal(t, model.AnnouncementInfo, announcement.Type)
		assert.True(t, announcement.IsActive)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)

		svc := NewAnnouncementService(mockRepo)
		_, err := svc.Create(context.Background(), CreateAnnouncementInput{
			Title:   "Welcome",
			Content: "Hello everyone",
			Type:    model.AnnouncementType("urgent"),
		}, admin)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAnnouncementService_Update(t *testing.T) {
	announcementID := uuid.New()
	newTitle := "Maintenance window moved"

	t.Run("missing announcement", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("UpdateFields", mock.Anything, announcementID, mock.Anything).Return(int64(0), nil)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewAnnouncementService(mockRepo)
		_, err := svc.Update(context.Background(), announcementID, UpdateAnnouncementInput{Title: &newTitle})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unchanged values is not an error", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		// MySQL reports zero affected rows when the stored values already
		// match; the record still exists.
		mockRepo.On("UpdateFields", mock.Anything, announcementID, mock.Anything).Return(int64(0), nil)
		mockRepo.On("FindByID", mock.Anything, announcementID).Return(&model.Announcement{
			ID:    announcementID,
			Title: newTitle,
		}, nil)

		svc := NewAnnouncementService(mockRepo)
		announcement, err := svc.Update(context.Background(), announcementID, UpdateAnnouncementInput{Title: &newTitle})

		assert.NoError(t, err)
		assert.Equal(t, newTitle, announcement.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no fields", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)

		svc := NewAnnouncementService(mockRepo)
		_, err := svc.Update(context.Background(), announcementID, UpdateAnnouncementInput{})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAnnouncementService_Deactivate(t *testing.T) {
	announcementID := uuid.New()

	t.Run("deactivates the record", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("Deactivate", mock.Anything, announcementID).Return(int64(1), nil)

		svc := NewAnnouncementService(mockRepo)
		assert.NoError(t, svc.Deactivate(context.Background(), announcementID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing announcement", func(t *testing.T) {
		mockRepo := new(MockAnnouncementRepository)
		mockRepo.On("Deactivate", mock.Anything, announcementID).Return(int64(0), nil)

		svc := NewAnnouncementService(mockRepo)
		assert.ErrorIs(t, svc.Deactivate(context.Background(), announcementID), apperrors.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}
