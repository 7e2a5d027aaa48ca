package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyshare/internal/model"
)

// BookRequestRepository defines book request persistence operations.
type BookRequestRepository interface {
	Create(ctx context.Context, request *model.BookRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BookRequest, error)
	List(ctx context.Context) ([]model.BookRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.BookRequest, error)
	// TransitionStatus applies a conditional pending-only status change.
	// Zero affected rows means the record is missing or already terminal.
	TransitionStatus(ctx context.Context, id uuid.UUID, to model.RequestStatus) (int64, error)
	// WithTransaction runs fn with transactional request and book
	// repositories, so approving a request and creating its book either
	// both land or neither does.
	WithTransaction(ctx context.Context, fn func(requests BookRequestRepository, books BookRepository) error) error
}

type bookRequestRepository struct {
	db *gorm.DB
}

// NewBookRequestRepository creates a new book request repository.
func NewBookRequestRepository(db *gorm.DB) BookRequestRepository {
	return &bookRequestRepository{db: db}
}

func (r *bookRequestRepository) Create(ctx context.Context, request *model.BookRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *bookRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BookRequest, error) {
	var request model.BookRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *bookRequestRepository) List(ctx context.Context) ([]model.BookRequest, error) {
	var requests []model.BookRequest
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *bookRequestRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.BookRequest, error) {
	var requests []model.BookRequest
	err := r.db.WithContext(ctx).
		Where("requested_by = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *bookRequestRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to model.RequestStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.BookRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *bookRequestRepository) WithTransaction(ctx context.Context, fn func(requests BookRequestRepository, books BookRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&bookRequestRepository{db: tx}, &bookRepository{db: tx})
	})
}
