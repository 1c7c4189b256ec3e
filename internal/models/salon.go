package models

import (
	"time"

	"gorm.io/datatypes"
)

type Salon struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone  string   `gorm:"size:64;default:'Europe/Kiev'" json:"timezone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Default per-weekday open/close map; masters may override it.
	WorkingHours datatypes.JSON `json:"working_hours"`

	BufferTimeMin     int  `gorm:"default:0" json:"buffer_time_min"`
	MinAdvanceMinutes int  `gorm:"default:120" json:"min_advance_minutes"`
	MaxAdvanceDays    int  `gorm:"default:60" json:"max_advance_days"`
	IsActive          bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
