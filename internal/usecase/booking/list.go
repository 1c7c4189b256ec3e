package booking

import (
	"context"
	"time"

	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/dto"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/salontime"
)

type ListBookings struct {
	repo schedule.Repository
}

func NewListBookings(repo schedule.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) ByDate(
	ctx context.Context,
	salonID uint,
	masterID *uint,
	date string,
) ([]dto.BookingListDTO, error) {

	if !salontime.IsValidDate(date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	bookings, err := uc.repo.ListBookingsForDate(ctx, salonID, masterID, date)
	if err != nil {
		return nil, err
	}
	return dto.BookingList(bookings), nil
}

func (uc *ListBookings) ByMonth(
	ctx context.Context,
	salonID uint,
	masterID *uint,
	year int,
	month int,
) ([]dto.BookingListDTO, error) {

	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	dates := make([]string, 0, days)
	for d := 0; d < days; d++ {
		dates = append(dates, first.AddDate(0, 0, d).Format(salontime.DateLayout))
	}

	bookings, err := uc.repo.ListBookingsForDates(ctx, salonID, masterID, dates)
	if err != nil {
		return nil, err
	}
	return dto.BookingList(bookings), nil
}
