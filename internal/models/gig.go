package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GigStatus string

const (
	GigStatusDraft     GigStatus = "draft"
	GigStatusPublished GigStatus = "published"
)

// Gig is a freelancer-authored service listing with fixed price and
// delivery terms. Numeric IDs are never exposed raw on public routes;
// see utils.EncryptID.
type Gig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`

	Title       string `gorm:"not null" json:"title"`
	Category    string `gorm:"type:varchar(120);index" json:"category"`
	Description string `gorm:"type:text" json:"description"`

	Price         int64 `json:"price"`
	DeliveryDays  int   `json:"delivery_days"`
	RevisionCount int   `json:"revision_count"`

	ThumbnailURL string         `gorm:"type:text" json:"thumbnail_url"`
	Gallery      datatypes.JSON `json:"gallery"` // array of image URLs

	Status GigStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
