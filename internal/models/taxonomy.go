package models

import "time"

// Categories and skills go through admin moderation before they appear in
// public lists; cities and specialties are admin-created and always live.

type Category struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	Name   string         `gorm:"uniqueIndex;not null" json:"name"`
	Status ApprovalStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Skill struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	Name   string         `gorm:"uniqueIndex;not null" json:"name"`
	Status ApprovalStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type City struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
}

type Specialty struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	CategoryID *uint  `gorm:"index" json:"category_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
