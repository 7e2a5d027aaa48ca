package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyshare/internal/model"
)

// MaterialRepository defines material persistence operations.
type MaterialRepository interface {
	Create(ctx context.Context, material *model.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	List(ctx context.Context, bookID *uuid.UUID, status *model.MaterialStatus) ([]model.Material, error)
	Search(ctx context.Context, query string) ([]model.Material, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	// TransitionStatus applies a conditional pending-only status change.
	// Zero affected rows means the record is missing or already terminal.
	TransitionStatus(ctx context.Context, id uuid.UUID, to model.MaterialStatus, reviewerID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*model.MaterialStats, error)
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository creates a new material repository.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *model.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var material model.Material
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// List returns materials newest first, optionally narrowed by book and
// status, with uploader and book rows joined in.
func (r *materialRepository) List(ctx context.Context, bookID *uuid.UUID, status *model.MaterialStatus) ([]model.Material, error) {
	q := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("Book").
		Order("created_at DESC")
	if bookID != nil {
		q = q.Where("book_id = ?", *bookID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var materials []model.Material
	if err := q.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Search matches a case-insensitive substring against the material title,
// description, and the owning book's title, newest first.
func (r *materialRepository) Search(ctx context.Context, query string) ([]model.Material, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var materials []model.Material
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN books ON books.id = materials.book_id").
		Where(
			"LOWER(materials.title) LIKE ? OR LOWER(materials.description) LIKE ? OR LOWER(books.title) LIKE ?",
			pattern, pattern, pattern,
		).
		Preload("Uploader").
		Preload("Book").
		Order("materials.created_at DESC").
		Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

// UpdateFields applies a partial update, returning the number of affected rows.
func (r *materialRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Material{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *materialRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to model.MaterialStatus, reviewerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Material{}).
		Where("id = ? AND status = ?", id, model.MaterialStatusPending).
		Updates(map[string]interface{}{
			"status":      to,
			"approved_by": reviewerID,
			"updated_at":  time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *materialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Material{}, "id = ?", id).Error
}

func (r *materialRepository) Stats(ctx context.Context) (*model.MaterialStats, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Material{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var byBook []model.BookMaterialCount
	err := r.db.WithContext(ctx).Table("books").
		Select("books.id AS book_id, books.title AS title, COUNT(materials.id) AS count").
		Joins("LEFT JOIN materials ON materials.book_id = books.id").
		Group("books.id, books.title").
		Order("count DESC").
		Scan(&byBook).Error
	if err != nil {
		return nil, err
	}

	return &model.MaterialStats{Total: total, ByBook: byBook}, nil
}
