package booking

import (
	"context"

	"github.com/salonflow/salon-scheduler/internal/audit"
	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/models"
)

// Confirm and no-show share the same shape: guard the transition,
// save, audit. No client stats and no notification fan-out.

type ConfirmBooking struct {
	repo  schedule.Repository
	audit *audit.Dispatcher
}

func NewConfirmBooking(repo schedule.Repository, auditor *audit.Dispatcher) *ConfirmBooking {
	return &ConfirmBooking{repo: repo, audit: auditor}
}

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	salonID uint,
	actorID *uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, salonID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := schedule.Confirm(b); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   actorID,
		Action:   "booking_confirmed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

type MarkNoShow struct {
	repo  schedule.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(repo schedule.Repository, auditor *audit.Dispatcher) *MarkNoShow {
	return &MarkNoShow{repo: repo, audit: auditor}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	salonID uint,
	actorID *uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, salonID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := schedule.MarkNoShow(b); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   actorID,
		Action:   "booking_no_show",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
