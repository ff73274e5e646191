package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is an employer organization referenced by employer accounts.
type Company struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Slug         string `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	ContactEmail string `gorm:"size:255" json:"contact_email"`
	ContactPhone string `gorm:"size:30" json:"contact_phone"`
	Website      string `gorm:"size:255" json:"website"`
	Industry     string `gorm:"size:100" json:"industry"`
	Region       string `gorm:"size:50" json:"region"`
	IsVerified   bool   `gorm:"not null;default:false" json:"is_verified"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
