package models

import "time"

const (
	TimeBlockBreak    = "BREAK"
	TimeBlockVacation = "VACATION"
	TimeBlockOther    = "OTHER"
)

// TimeBlock marks a master (or the whole salon, when MasterID is nil)
// as unavailable regardless of bookings.
type TimeBlock struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	MasterID *uint `gorm:"index" json:"master_id"`

	Date      string `gorm:"size:10;index" json:"date"` // YYYY-MM-DD
	StartTime string `gorm:"size:5" json:"start_time"`  // HH:MM
	EndTime   string `gorm:"size:5" json:"end_time"`

	Type     string `gorm:"size:20;default:'BREAK'" json:"type"`
	IsAllDay bool   `gorm:"default:false" json:"is_all_day"`

	// "weekly" repeats the block on the same weekday from Date onward.
	Repeat string `gorm:"size:20" json:"repeat"`

	Title string `gorm:"size:100" json:"title"`
	Color string `gorm:"size:20" json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
