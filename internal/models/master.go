package models

import (
	"time"

	"gorm.io/datatypes"
)

type Master struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Color string `gorm:"size:20" json:"color"`

	// Kept in sync with the salon timezone on address changes unless
	// the salon opts out of master sync.
	Timezone string `gorm:"size:64" json:"timezone"`

	// Per-weekday {start, end, enabled} map. Empty means the salon
	// default applies.
	WorkingHours datatypes.JSON `json:"working_hours"`

	LunchStart       string `gorm:"size:5" json:"lunch_start"`
	LunchDurationMin int    `json:"lunch_duration_min"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
