package booking

import (
	"context"

	"github.com/salonflow/salon-scheduler/internal/audit"
	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/notify"
	"github.com/salonflow/salon-scheduler/internal/timezone"
)

type CancelBooking struct {
	repo     schedule.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
}

func NewCancelBooking(
	repo schedule.Repository,
	auditor *audit.Dispatcher,
	notifier notify.Notifier,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		audit:    auditor,
		notifier: notifier,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	salonID uint,
	actorID *uint,
	bookingID uint,
) (*models.Booking, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBooking(ctx, salonID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	oldStatus := b.Status
	now := timezone.NowIn(salon.Timezone)
	if err := schedule.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   actorID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	if chatID, err := uc.repo.GetOwnerTelegramChatID(ctx, salonID); err == nil {
		uc.notifier.BookingStatusChanged(notify.Event{
			Booking:   b,
			SalonName: salon.Name,
			OldStatus: oldStatus,
			NewStatus: b.Status,
			ChatID:    chatID,
		})
	}

	return b, nil
}

// ExecuteByToken cancels through the public cancel link: the uuid
// token is the only authorization.
func (uc *CancelBooking) ExecuteByToken(
	ctx context.Context,
	token string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByCancelToken(ctx, token)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	return uc.Execute(ctx, b.SalonID, nil, b.ID)
}
