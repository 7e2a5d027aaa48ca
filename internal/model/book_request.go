package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus represents the moderation state of a book request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Terminal reports whether the status allows no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// BookRequest asks an admin to add a new book. Approval creates the matching
// Book in the same transaction as the status change.
type BookRequest struct {
	ID          uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string        `json:"title" gorm:"size:255;not null"`
	Description string        `json:"description,omitempty" gorm:"type:text"`
	RequestedBy uuid.UUID     `json:"requested_by" gorm:"type:char(36);not null;index"`
	Status      RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time     `json:"created_at"`

	// Relations
	Requester User `json:"-" gorm:"foreignKey:RequestedBy"`
}

// BeforeCreate sets UUID before creating the record.
func (r *BookRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DeletionPolicy for book requests is hard, though the API never deletes
// them; terminal requests stay as history.
func (BookRequest) DeletionPolicy() DeletionPolicy {
	return DeletionHard
}
