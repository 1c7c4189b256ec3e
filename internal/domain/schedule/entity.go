package schedule

import (
	"time"

	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/salontime"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusConfirmed)
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func MarkNoShow(b *models.Booking) error {
	if err := CanMarkNoShow(Status(b.Status)); err != nil {
		return err
	}
	b.Status = string(StatusNoShow)
	return nil
}

// EndMinutes resolves a booking's end as minutes from midnight:
// TimeEnd when present, otherwise time + duration (60 min fallback).
func EndMinutes(b *models.Booking) (int, error) {
	if b.TimeEnd != "" {
		return salontime.MinutesOfDay(b.TimeEnd)
	}
	start, err := salontime.MinutesOfDay(b.Time)
	if err != nil {
		return 0, err
	}
	dur := b.DurationMin
	if dur <= 0 {
		dur = 60
	}
	return start + dur, nil
}

// BookingInterval maps a booking onto the occupied-interval space.
func BookingInterval(b *models.Booking) (Interval, error) {
	start, err := salontime.MinutesOfDay(b.Time)
	if err != nil {
		return Interval{}, err
	}
	end, err := EndMinutes(b)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end, Source: SourceBooking, RefID: b.ID}, nil
}
