package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FreelancerProfile is 1:1 with a freelancer user. The row is created
// lazily on first read, never at registration. Array-typed columns are
// stored as JSON and always initialized to [] so the frontend never sees
// null where it expects a sequence.
type FreelancerProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	ImagePath string `gorm:"type:text" json:"image_path"`
	Title     string `gorm:"type:varchar(150)" json:"title"`
	Overview  string `gorm:"type:text" json:"overview"`

	HourlyRate      *float64   `gorm:"type:numeric" json:"hourly_rate"`
	ExperienceYears *int       `json:"experience_years"`
	DateOfBirth     *time.Time `gorm:"type:date" json:"date_of_birth"`

	Skills         datatypes.JSON `json:"skills"`
	Languages      datatypes.JSON `json:"languages"`
	Education      datatypes.JSON `json:"education"`
	Experience     datatypes.JSON `json:"experience"`
	Certifications datatypes.JSON `json:"certifications"`
	Portfolio      datatypes.JSON `json:"portfolio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *FreelancerProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// ClientProfile is the client-side counterpart, same lazy-creation rule.
type ClientProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	ImagePath   string `gorm:"type:text" json:"image_path"`
	CompanyName string `gorm:"type:varchar(150)" json:"company_name"`
	Website     string `gorm:"type:varchar(255)" json:"website"`
	About       string `gorm:"type:text" json:"about"`

	PaymentMethods datatypes.JSON `json:"payment_methods"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *ClientProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// EmptyJSONArray is the default value for array-typed profile columns.
func EmptyJSONArray() datatypes.JSON {
	return datatypes.JSON([]byte("[]"))
}
