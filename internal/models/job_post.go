package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalStatus is mutated by admins only.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// JobPostStatus is the lifecycle status, mutated by the completion flow.
type JobPostStatus string

const (
	JobPostActive    JobPostStatus = "active"
	JobPostCompleted JobPostStatus = "completed"
	JobPostCancelled JobPostStatus = "cancelled"
)

// JobPost is a client-authored request for work. It only becomes visible
// to freelancers once an admin approves it.
type JobPost struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID uuid.UUID `gorm:"type:uuid;not null;index" json:"buyer_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(120);index" json:"category"`
	City        string `gorm:"type:varchar(120)" json:"city"`
	Budget      int64  `json:"budget"`

	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);default:'pending';index" json:"approval_status"`
	Status         JobPostStatus  `gorm:"type:varchar(20);default:'active';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Buyer *User `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
}

func (j *JobPost) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}
