package service

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "studyshare/internal/errors"
	"studyshare/internal/model"
)

func TestBookService_Create(t *testing.T) {
	admin := newTestUser(model.RoleAdmin)

	t.Run("creates with trimmed title", func(t *testing.T) {
		mockBooks := new(MockBookRepository)
		mockBooks.On("Create", mock.Anything, mock.AnythingOfType("*model.Book")).Return(nil)

		svc := NewBookService(mockBooks, new(MockFileStore), nil)
		book, err := svc.Create(context.Background(), CreateBookInput{Title: "  Linear Algebra  "}, admin)

		assert.NoError(t, err)
		assert.Equal(t, "Linear Algebra", book.Title)
		assert.Equal(t, admin.ID, book.CreatedBy)
		mockBooks.AssertExpectations(t)
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		mockBooks := new(MockBookRepository)

		svc := NewBookService(mockBooks, new(MockFileStore), nil)
		_, err := svc.Create(context.Background(), CreateBookInput{Title: "   "}, admin)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		mockBooks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBookService_DeleteCascadesPayloads(t *testing.T) {
	bookID := uuid.New()

	t.Run("removes every material payload", func(t *testing.T) {
		mockBooks := new(MockBookRepository)
		mockStore := new(MockFileStore)
		mockBooks.On("DeleteCascade", mock.Anything, bookID).Return([]string{"a.pdf", "b.png"}, nil)
		mockStore.On("Remove", "a.pdf").Return(nil)
		mockStore.On("Remove", "b.png").Return(os.ErrNotExist)

		svc := NewBookService(mockBooks, mockStore, nil)
		err := svc.Delete(context.Background(), bookID)

		assert.NoError(t, err)
		mockBooks.AssertExpectations(t)
		mockStore.AssertExpectations(t)
	})

	t.Run("missing book", func(t *testing.T) {
		mockBooks := new(MockBookRepository)
		mockStore := new(MockFileStore)
		mockBooks.On("DeleteCascade", mock.Anything, bookID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewBookService(mockBooks, mockStore, nil)
		err := svc.Delete(context.Background(), bookID)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockStore.AssertNotCalled(t, "Remove", mock.Anything)
	})
}

func TestBookService_Update(t *testing.T) {
	bookID := uuid.New()
	newTitle := "Algebra, Second Edition"

	t.Run("missing book", func(t *testing.T) {
		mockBooks := new(MockBookRepository)
		mockBooks.On("UpdateFields", mock.Anything, bookID, mock.Anything).Return(int64(0), nil)
		mockBooks.On("FindByID", mock.Anything, bookID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewBookService(mockBooks, new(MockFileStore), nil)
		_, err := svc.Update(context.Background(), bookID, UpdateBookInput{Title: &newTitle})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockBooks.AssertExpectations(t)
	})

	t.Run("unchanged values is not an error", func(t *testing.T) {
		mockBooks := new(MockBookRepository)
		// MySQL reports zero affected rows when the stored values already
		// match; the record still exists.
		mockBooks.On("UpdateFields", mock.Anything, bookID, mock.Anything).Return(int64(0), nil)
		mockBooks.On("FindByID", mock.Anything, bookID).Return(&model.Book{ID: bookID, Title: newTitle}, nil)

		svc := NewBookService(mockBooks, new(MockFileStore), nil)
		book, err := svc.Update(context.Background(), bookID, UpdateBookInput{Title: &newTitle})

		assert.NoError(t, err)
		assert.Equal(t, newTitle, book.Title)
		mockBooks.AssertExpectations(t)
	})

	t.Run("updates and re-reads", func(t *testing.T) {
		mockBooks := new(MockBookRepository)
		mockBooks.On("UpdateFields", mock.Anything, bookID, mock.Anything).Return(int64(1), nil)
		mockBooks.On("FindByID", mock.Anything, bookID).Return(&model.Book{ID: bookID, Title: newTitle}, nil)

		svc := NewBookService(mockBooks, new(MockFileStore), nil)
		book, err := svc.Update(context.Background(), bookID, UpdateBookInput{Title: &newTitle})

		assert.NoError(t, err)
		assert.Equal(t, newTitle, book.Title)
		mockBooks.AssertExpectations(t)
	})
}
