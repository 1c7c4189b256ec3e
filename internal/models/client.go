package models

import "time"

// Client is a denormalized aggregate: visit stats are incremented when
// a booking transitions to COMPLETED, not recomputed from history.
type Client struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	VisitsCount int        `gorm:"default:0" json:"visits_count"`
	TotalSpent  float64    `gorm:"default:0" json:"total_spent"`
	LastVisit   *time.Time `json:"last_visit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
