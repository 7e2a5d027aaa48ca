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

// SubmitBookRequestInput carries the fields of a new book request.
type SubmitBookRequestInput struct {
	Title       string
	Description string
}

// BookRequestService owns the book request queue. Approval creates the
// requested book in the same transaction as the status change, so a failed
// creation rolls the approval back.
type BookRequestService interface {
	Submit(ctx context.Context, in SubmitBookRequestInput, requester *model.User) (*model.BookRequest, error)
	// List returns every request for admins and only the caller's own
	// requests otherwise.
	List(ctx context.Context, actor *model.User) ([]model.BookRequest, error)
	Review(ctx context.Context, id uuid.UUID, decision model.RequestStatus, reviewer *model.User) (*model.BookRequest, error)
}

type bookRequestService struct {
	requests repository.BookRequestRepository
}

// NewBookRequestService creates a new book request service.
func NewBookRequestService(requests repository.BookRequestRepository) BookRequestService {
	return &bookRequestService{requests: requests}
}

func (s *bookRequestService) Submit(ctx context.Context, in SubmitBookRequestInput, requester *model.User) (*model.BookRequest, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("title must not be empty")
	}

	request := &model.BookRequest{
		Title:       title,
		Description: in.Description,
		RequestedBy: requester.ID,
		Status:      model.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create book request: %w", err)
	}
	return request, nil
}

func (s *bookRequestService) List(ctx context.Context, actor *model.User) ([]model.BookRequest, error) {
	if actor.IsAdmin() {
		return s.requests.List(ctx)
	}
	return s.requests.ListByRequester(ctx, actor.ID)
}

func (s *bookRequestService) Review(ctx context.Context, id uuid.UUID, decision model.RequestStatus, reviewer *model.User) (*model.BookRequest, error) {
	if !decision.Terminal() {
		return nil, apperrors.InvalidInput("decision must be approved or rejected")
	}

	var reviewed *model.BookRequest
	err := s.requests.WithTransaction(ctx, func(requests repository.BookRequestRepository, books repository.BookRepository) error {
		request, err := requests.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("book request")
			}
			return fmt.Errorf("find book request: %w", err)
		}

		rows, err := requests.TransitionStatus(ctx, id, decision)
		if err != nil {
			return fmt.Errorf("transition book request: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: book request is no longer pending", apperrors.ErrInvalidTransition)
		}

		if decision == model.RequestStatusApproved {
			book := &model.Book{
				Title:       request.Title,
				Description: request.Description,
				CreatedBy:   reviewer.ID,
			}
			if err := books.Create(ctx, book); err != nil {
				return fmt.Errorf("create book from request: %w", err)
			}
		}

		request.Status = decision
		reviewed = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}
