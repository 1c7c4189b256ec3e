package models

import "time"

// Booking stores salon-local naive date/time strings. Timezone
// conversion happens only when comparing against "now".
type Booking struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SalonID uint  `gorm:"index" json:"salon_id"`
	Salon   Salon `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Nullable: a public booking may be taken by "any master".
	MasterID *uint `gorm:"index:idx_bookings_master_date" json:"master_id"`

	ClientID  uint  `json:"client_id"`
	ServiceID *uint `json:"service_id"`

	// Snapshot at creation time, not a live join.
	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`
	ServiceName string `gorm:"size:100" json:"service_name"`
	MasterName  string `gorm:"size:100" json:"master_name"`

	Date        string `gorm:"size:10;index:idx_bookings_master_date" json:"date"` // YYYY-MM-DD
	Time        string `gorm:"size:5" json:"time"`                                 // HH:MM
	TimeEnd     string `gorm:"size:5" json:"time_end"`
	DurationMin int    `json:"duration_min"`

	Price  float64 `json:"price"`
	Status string  `gorm:"size:20;default:'CONFIRMED';index" json:"status"`
	Notes  string  `gorm:"size:500" json:"notes"`

	CancelToken string `gorm:"size:36;uniqueIndex" json:"-"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
