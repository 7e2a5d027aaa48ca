package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book represents a subject that materials are tagged to. Books are created by
// an admin, directly or by approving a BookRequest.
type Book struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CoverImage  string    `json:"cover_image,omitempty" gorm:"size:512"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Creator User `json:"-" gorm:"foreignKey:CreatedBy"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DeletionPolicy for books is hard: deleting a book removes the row and
// cascades to its materials.
func (Book) DeletionPolicy() DeletionPolicy {
	return DeletionHard
}

// UnknownBook is the placeholder substituted when a joined book row is missing.
func UnknownBook() Book {
	return Book{Title: "Unknown"}
}
