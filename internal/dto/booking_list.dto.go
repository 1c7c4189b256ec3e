package dto

import "github.com/salonflow/salon-scheduler/internal/models"

type BookingListDTO struct {
	ID          uint    `json:"id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	TimeEnd     string  `json:"time_end"`
	DurationMin int     `json:"duration_min"`
	Status      string  `json:"status"`
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ServiceName string  `json:"service_name"`
	MasterID    *uint   `json:"master_id"`
	MasterName  string  `json:"master_name"`
	Price       float64 `json:"price"`
	Notes       string  `json:"notes,omitempty"`
}

func BookingItem(b models.Booking) BookingListDTO {
	return BookingListDTO{
		ID:          b.ID,
		Date:        b.Date,
		Time:        b.Time,
		TimeEnd:     b.TimeEnd,
		DurationMin: b.DurationMin,
		Status:      b.Status,
		ClientName:  b.ClientName,
		ClientPhone: b.ClientPhone,
		ServiceName: b.ServiceName,
		MasterID:    b.MasterID,
		MasterName:  b.MasterName,
		Price:       b.Price,
		Notes:       b.Notes,
	}
}

func BookingList(bookings []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingItem(b))
	}
	return out
}
