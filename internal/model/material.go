package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaterialStatus represents the moderation state of a material.
type MaterialStatus string

const (
	MaterialStatusPending  MaterialStatus = "pending"
	MaterialStatusApproved MaterialStatus = "approved"
	MaterialStatusRejected MaterialStatus = "rejected"
)

// Terminal reports whether the status allows no further transitions.
func (s MaterialStatus) Terminal() bool {
	return s == MaterialStatusApproved || s == MaterialStatusRejected
}

// Material represents an uploaded study file tagged to a book. It is created
// with status pending and transitions exactly once to approved or rejected.
// FilePath holds the generated storage name; FileName keeps the original name
// for display.
type Material struct {
	ID          uuid.UUID                    `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string                       `json:"title" gorm:"size:255;not null;index"`
	Description string                       `json:"description,omitempty" gorm:"type:text"`
	FileName    string                       `json:"file_name" gorm:"size:255;not null"`
	FilePath    string                       `json:"file_path" gorm:"size:255;not null;uniqueIndex"`
	FileSize    int64                        `json:"file_size" gorm:"not null"`
	FileType    string                       `json:"file_type" gorm:"size:100;not null"`
	Tags        datatypes.JSONSlice[string]  `json:"tags" gorm:"type:json"`
	BookID      uuid.UUID                    `json:"book_id" gorm:"type:char(36);not null;index"`
	UploadedBy  uuid.UUID                    `json:"uploaded_by" gorm:"type:char(36);not null;index"`
	Status      MaterialStatus               `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy  *uuid.UUID                   `json:"approved_by,omitempty" gorm:"type:char(36)"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`

	// Relations
	Book     Book `json:"-" gorm:"foreignKey:BookID"`
	Uploader User `json:"-" gorm:"foreignKey:UploadedBy"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// DeletionPolicy for materials is hard: the row and the stored payload are
// both removed.
func (Material) DeletionPolicy() DeletionPolicy {
	return DeletionHard
}

// MaterialView is the read shape served by list and search queries: the
// material joined with its uploader identity and owning book. Missing
// references are substituted with Unknown placeholders rather than failing
// the query.
type MaterialView struct {
	Material
	Uploader User `json:"uploader"`
	Book     Book `json:"book"`
}

// NewMaterialView builds the read view, substituting placeholders for
// missing joins.
func NewMaterialView(m Material) MaterialView {
	view := MaterialView{Material: m, Uploader: m.Uploader, Book: m.Book}
	if view.Uploader.ID == uuid.Nil {
		view.Uploader = UnknownUser()
	}
	if view.Book.ID == uuid.Nil {
		view.Book = UnknownBook()
	}
	view.Material.Uploader = User{}
	view.Material.Book = Book{}
	return view
}
