package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salonflow/salon-scheduler/internal/audit"
	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/metrics"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/notify"
	"github.com/salonflow/salon-scheduler/internal/salontime"
	"github.com/salonflow/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	SalonID   uint
	MasterID  *uint // nil: "any master", does not reserve a column
	ServiceID *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date        string // YYYY-MM-DD, salon-local
	Time        string // HH:MM
	DurationMin int    // ignored when ServiceID is set
	Notes       string

	// Origin labels metrics and picks validation strictness:
	// "public" enforces the +380 phone format and the salon's
	// minimum advance window.
	Origin string

	// Acting user for the audit trail; nil on the public path.
	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     schedule.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewCreateBooking(
	repo schedule.Repository,
	auditor *audit.Dispatcher,
	notifier notify.Notifier,
	log zerolog.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		audit:    auditor,
		notifier: notifier,
		log:      log.With().Str("component", "create_booking").Logger(),
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	public := in.Origin == "public"

	// --------------------------------------------------
	// Input validation — nothing touches the store before
	// this section passes.
	// --------------------------------------------------

	name, err := validateClientName(in.ClientName)
	if err != nil {
		return nil, err
	}

	phone, err := normalizePhone(in.ClientPhone, public)
	if err != nil {
		return nil, err
	}

	if !salontime.IsValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if !salontime.IsValidTime(in.Time) {
		return nil, httperr.ErrBusiness("invalid_time")
	}

	// --------------------------------------------------
	// Salon
	// --------------------------------------------------

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	if !salon.IsActive {
		return nil, httperr.ErrBusiness("salon_not_found")
	}

	// --------------------------------------------------
	// Service snapshot
	// --------------------------------------------------

	duration := in.DurationMin
	serviceName := ""
	price := 0.0

	if in.ServiceID != nil {
		service, err := uc.repo.GetService(ctx, in.SalonID, *in.ServiceID)
		if err != nil || !service.IsActive {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		duration = service.DurationMin
		serviceName = service.Name
		price = service.Price
	}

	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}
	if duration < minDurationMin || duration > maxDurationMin {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	startMin, err := salontime.MinutesOfDay(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	endMin := startMin + duration
	if endMin > schedule.DayEnd {
		// Bookings never span midnight; split by the caller if needed.
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// Advance window, in the master's (or salon's) zone
	// --------------------------------------------------

	var master *models.Master
	masterName := "Будь-який майстер"
	if in.MasterID != nil {
		master, err = uc.repo.GetMaster(ctx, in.SalonID, *in.MasterID)
		if err != nil || !master.IsActive {
			return nil, httperr.ErrBusiness("master_not_found")
		}
		masterName = master.Name
	}

	tz := salon.Timezone
	if master != nil && master.Timezone != "" {
		tz = master.Timezone
	}

	until, err := salontime.MinutesUntil(in.Date, in.Time, timezone.Location(tz))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	minAdvance := 0
	if public {
		minAdvance = salon.MinAdvanceMinutes
	}
	if until < minAdvance {
		return nil, httperr.ErrBusiness("too_soon")
	}

	maxDays := salon.MaxAdvanceDays
	if maxDays <= 0 {
		maxDays = 60
	}
	if until > maxDays*24*60 {
		return nil, httperr.ErrBusiness("too_far_ahead")
	}

	// --------------------------------------------------
	// Working hours + lunch (master bookings only)
	// --------------------------------------------------

	if master != nil {
		if err := uc.checkWorkingHours(salon, master, in.Date, startMin, endMin); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Client (get or create)
	// --------------------------------------------------

	client, err := uc.repo.GetOrCreateClient(ctx, in.SalonID, name, phone, normalizeEmail(in.ClientEmail))
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Conflict re-check + insert, atomically in the repo
	// --------------------------------------------------

	b := &models.Booking{
		SalonID:     in.SalonID,
		MasterID:    in.MasterID,
		ClientID:    client.ID,
		ServiceID:   in.ServiceID,
		ClientName:  name,
		ClientPhone: phone,
		ServiceName: serviceName,
		MasterName:  masterName,
		Date:        in.Date,
		Time:        in.Time,
		TimeEnd:     salontime.FormatMinutes(endMin),
		DurationMin: duration,
		Price:       price,
		Status:      string(schedule.InitialStatus()),
		Notes:       clampNotes(in.Notes),
		CancelToken: uuid.NewString(),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if _, conflict := schedule.AsConflict(err); conflict || httperr.IsExclusionConflict(err) {
			metrics.IncBookingConflict()

			uc.audit.Dispatch(audit.Event{
				SalonID:  in.SalonID,
				UserID:   in.ActorID,
				Action:   "booking_conflict",
				Entity:   "booking",
				Metadata: map[string]any{"date": in.Date, "time": in.Time, "duration": duration},
			})
		}
		return nil, err
	}

	metrics.IncBookingCreated(in.Origin)

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.ActorID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	if chatID, err := uc.repo.GetOwnerTelegramChatID(ctx, in.SalonID); err == nil {
		uc.notifier.BookingCreated(notify.Event{
			Booking:   b,
			SalonName: salon.Name,
			ChatID:    chatID,
		})
	}

	return b, nil
}

func (uc *CreateBooking) checkWorkingHours(
	salon *models.Salon,
	master *models.Master,
	date string,
	startMin, endMin int,
) error {

	weekday, err := salontime.Weekday(date)
	if err != nil {
		return httperr.ErrBusiness("invalid_date")
	}

	masterWH, err := schedule.ParseWeekHours(master.WorkingHours)
	if err != nil {
		uc.log.Warn().Err(err).Uint("master_id", master.ID).Msg("invalid master working hours")
		return httperr.ErrBusiness("outside_working_hours")
	}
	salonWH, err := schedule.ParseWeekHours(salon.WorkingHours)
	if err != nil {
		uc.log.Warn().Err(err).Uint("salon_id", salon.ID).Msg("invalid salon working hours")
		return httperr.ErrBusiness("outside_working_hours")
	}

	window, open := schedule.DayWindow(masterWH, salonWH, weekday)
	if !open {
		return httperr.ErrBusiness("outside_working_hours")
	}
	if startMin < window.Start || endMin > window.End {
		return httperr.ErrBusiness("outside_working_hours")
	}

	if lunch, ok := schedule.LunchInterval(master.LunchStart, master.LunchDurationMin); ok {
		if (schedule.Interval{Start: startMin, End: endMin}).Overlaps(lunch) {
			return httperr.ErrBusiness("outside_working_hours")
		}
	}

	return nil
}
