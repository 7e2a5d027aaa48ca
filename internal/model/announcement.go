package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnouncementType classifies the visual intent of an announcement.
type AnnouncementType string

const (
	AnnouncementInfo    AnnouncementType = "info"
	AnnouncementWarning AnnouncementType = "warning"
	AnnouncementSuccess AnnouncementType = "success"
	AnnouncementError   AnnouncementType = "error"
)

// Valid reports whether the type is one of the known values.
func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementInfo, AnnouncementWarning, AnnouncementSuccess, AnnouncementError:
		return true
	}
	return false
}

// Announcement broadcasts a notice to all users. Announcements are never
// purged; deletion flips IsActive.
type Announcement struct {
	ID        uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string           `json:"title" gorm:"size:255;not null"`
	Content   string           `json:"content" gorm:"type:text;not null"`
	Type      AnnouncementType `json:"type" gorm:"type:varchar(20);not null;default:'info'"`
	CreatedBy uuid.UUID        `json:"created_by" gorm:"type:char(36);not null;index"`
	IsActive  bool             `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	Creator User `json:"-" gorm:"foreignKey:CreatedBy"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// DeletionPolicy for announcements is soft: delete deactivates the record.
func (Announcement) DeletionPolicy() DeletionPolicy {
	return DeletionSoft
}

// AnnouncementView joins the creator identity at read time.
type AnnouncementView struct {
	Announcement
	Creator User `json:"creator"`
}

// NewAnnouncementView builds the read view with an Unknown placeholder when
// the creator row is missing.
func NewAnnouncementView(a Announcement) AnnouncementView {
	view := AnnouncementView{Announcement: a, Creator: a.Creator}
	if view.Creator.ID == uuid.Nil {
		view.Creator = UnknownUser()
	}
	view.Announcement.Creator = User{}
	return view
}
