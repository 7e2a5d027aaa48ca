package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
	"studyshare/internal/repository"
)

// CreateAnnouncementInput carries the fields of a new announcement.
type CreateAnnouncementInput struct {
	Title   string
	Content string
	Type    model.AnnouncementType
}

// UpdateAnnouncementInput carries a partial update; nil fields are unchanged.
type UpdateAnnouncementInput struct {
	Title   *string
	Content *string
	Type    *model.AnnouncementType
}

// AnnouncementService owns announcement CRUD. Deletion follows the soft
// policy: records are deactivated, never purged.
type AnnouncementService interface {
	Create(ctx context.Context, in CreateAnnouncementInput, creator *model.User) (*model.Announcement, error)
	ListActive(ctx context.Context) ([]model.AnnouncementView, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateAnnouncementInput) (*model.Announcement, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type announcementService struct {
	announcements repository.AnnouncementRepository
}

// NewAnnouncementService creates a new announcement service.
func NewAnnouncementService(announcements repository.AnnouncementRepository) AnnouncementService {
	return &announcementService{announcements: announcements}
}

func (s *announcementService) Create(ctx context.Context, in CreateAnnouncementInput, creator *model.User) (*model.Announcement, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("title must not be empty")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperrors.InvalidInput("content must not be empty")
	}
	if in.Type == "" {
		in.Type = model.AnnouncementInfo
	}
	if !in.Type.Valid() {
		return nil, apperrors.InvalidInput("unknown announcement type")
	}

	announcement := &model.Announcement{
		Title:     title,
		Content:   in.Content,
		Type:      in.Type,
		CreatedBy: creator.ID,
		IsActive:  true,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) ListActive(ctx context.Context) ([]model.AnnouncementView, error) {
	announcements, err := s.announcements.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.AnnouncementView, 0, len(announcements))
	for _, a := range announcements {
		views = append(views, model.NewAnnouncementView(a))
	}
	return views, nil
}

func (s *announcementService) Update(ctx context.Context, id uuid.UUID, in UpdateAnnouncementInput) (*model.Announcement, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		fields["title"] = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, apperrors.InvalidInput("content must not be empty")
		}
		fields["content"] = *in.Content
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, apperrors.InvalidInput("unknown announcement type")
		}
		fields["type"] = *in.Type
	}
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("no fields to update")
	}

	rows, err := s.announcements.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	if rows == 0 {
		// MySQL reports zero affected rows for a no-op update, so re-read
		// to tell a missing record from unchanged values.
		announcement, err := s.announcements.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("announcement")
			}
			return nil, err
		}
		return announcement, nil
	}
	return s.announcements.FindByID(ctx, id)
}

func (s *announcementService) Deactivate(ctx context.Context, id uuid.UUID) error {
	rows, err := s.announcements.Deactivate(ctx, id)
	if err != nil {
		return fmt.Errorf("deactivate announcement: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("announcement")
	}
	return nil
}
