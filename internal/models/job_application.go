package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

// The status set is open-ended: dashboard counts partition on the three
// values below but must never assume they are exhaustive.
const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationActive    ApplicationStatus = "active"
	ApplicationCompleted ApplicationStatus = "completed"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// JobApplication links one freelancer to one job post, carrying the
// proposed price and a work lifecycle status.
type JobApplication struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobPostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"job_post_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;index" json:"freelancer_id"`

	ProposedPrice float64 `gorm:"type:numeric;not null" json:"proposed_price"`
	CoverLetter   string  `gorm:"type:text" json:"cover_letter"`

	Status ApplicationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobPost    *JobPost `gorm:"foreignKey:JobPostID" json:"job_post,omitempty"`
	Freelancer *User    `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
