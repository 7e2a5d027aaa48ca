package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studyshare/internal/cache"
	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
	"studyshare/internal/repository"
)

// CreateBookInput carries the fields of a new book.
type CreateBookInput struct {
	Title       string
	Description string
	CoverImage  string
}

// UpdateBookInput carries a partial book update; nil fields are unchanged.
type UpdateBookInput struct {
	Title       *string
	Description *string
	CoverImage  *string
}

// BookService owns book CRUD. Deleting a book cascades to its materials and
// their stored payloads.
type BookService interface {
	Create(ctx context.Context, in CreateBookInput, creator *model.User) (*model.Book, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateBookInput) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookService struct {
	books repository.BookRepository
	store FileStore
	cache *cache.Client
}

// NewBookService creates a new book service.
func NewBookService(books repository.BookRepository, store FileStore, cacheClient *cache.Client) BookService {
	return &bookService{books: books, store: store, cache: cacheClient}
}

func (s *bookService) Create(ctx context.Context, in CreateBookInput, creator *model.User) (*model.Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("title must not be empty")
	}

	book := &model.Book{
		Title:       title,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		CreatedBy:   creator.ID,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey)
	return book, nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("book")
		}
		return nil, err
	}
	return book, nil
}

func (s *bookService) List(ctx context.Context) ([]model.Book, error) {
	return s.books.List(ctx)
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, in UpdateBookInput) (*model.Book, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.CoverImage != nil {
		fields["cover_image"] = *in.CoverImage
	}

	rows, err := s.books.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	if rows == 0 {
		// MySQL reports zero affected rows for a no-op update, so re-read
		// to tell a missing record from unchanged values.
		if _, err := s.books.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("book")
		}
	}
	return s.Get(ctx, id)
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	filePaths, err := s.books.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("book")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	for _, path := range filePaths {
		if err := s.store.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove payload %s for deleted book %s: %v", path, id, err)
		}
	}

	_ = s.cache.Delete(ctx, statsCacheKey)
	return nil
}
