package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyshare/internal/model"
)

// BookRepository defines book persistence operations.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	// DeleteCascade removes the book and all of its materials in one
	// transaction and returns the storage names of the deleted payloads so
	// the caller can remove them from disk after commit.
	DeleteCascade(ctx context.Context, id uuid.UUID) (filePaths []string, err error)
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateFields applies a partial update, returning the number of affected rows.
func (r *bookRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return r.exists(ctx, id)
	}
	res := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *bookRepository) exists(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", id).Count(&count).Error
	return count, err
}

func (r *bookRepository) DeleteCascade(ctx context.Context, id uuid.UUID) ([]string, error) {
	var filePaths []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book model.Book
		if err := tx.Where("id = ?", id).First(&book).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Material{}).
			Where("book_id = ?", id).
			Pluck("file_path", &filePaths).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&model.Material{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Book{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return filePaths, nil
}
