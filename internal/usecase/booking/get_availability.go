package booking

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/httperr"
	"github.com/salonflow/salon-scheduler/internal/metrics"
	"github.com/salonflow/salon-scheduler/internal/models"
	"github.com/salonflow/salon-scheduler/internal/salontime"
	"github.com/salonflow/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type AvailabilityInput struct {
	SalonID  uint
	MasterID uint

	Date string // YYYY-MM-DD

	// One of ServiceID / DurationMin; the service duration wins when
	// both are present.
	ServiceID   uint
	DurationMin int
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo schedule.Repository
	log  zerolog.Logger
}

func NewGetAvailability(repo schedule.Repository, log zerolog.Logger) *GetAvailability {
	return &GetAvailability{
		repo: repo,
		log:  log.With().Str("component", "availability").Logger(),
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]schedule.Slot, error) {

	metrics.IncSlotQuery()

	if !salontime.IsValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	master, err := uc.repo.GetMaster(ctx, in.SalonID, in.MasterID)
	if err != nil {
		return nil, httperr.ErrBusiness("master_not_found")
	}
	if !master.IsActive {
		return []schedule.Slot{}, nil
	}

	duration := in.DurationMin
	if in.ServiceID != 0 {
		service, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		duration = service.DurationMin
	}
	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	window, lunch, open := uc.dayWindow(salon, master, in.Date)
	if !open {
		return []schedule.Slot{}, nil
	}

	occupied, err := uc.repo.ListOccupied(ctx, in.SalonID, in.MasterID, in.Date)
	if err != nil {
		return nil, err
	}

	// Buffer time pads booked intervals only; blocks stay exact.
	if salon.BufferTimeMin > 0 {
		for i := range occupied {
			if occupied[i].Source == schedule.SourceBooking {
				occupied[i].End += salon.BufferTimeMin
			}
		}
	}

	return schedule.Slots(schedule.SlotInput{
		Window:      window,
		Lunch:       lunch,
		Occupied:    occupied,
		DurationMin: duration,
		StepMin:     schedule.DefaultSlotStepMin,
		MinStart:    minStartForToday(master, salon, in.Date),
	}), nil
}

// dayWindow resolves the working window and lunch break for the
// date's weekday, master config overriding the salon default. Missing
// or invalid configuration closes the day — availability is never
// invented from bad config.
func (uc *GetAvailability) dayWindow(
	salon *models.Salon,
	master *models.Master,
	date string,
) (schedule.Interval, schedule.Interval, bool) {

	weekday, err := salontime.Weekday(date)
	if err != nil {
		return schedule.Interval{}, schedule.Interval{}, false
	}

	masterWH, err := schedule.ParseWeekHours(master.WorkingHours)
	if err != nil {
		uc.log.Warn().Err(err).Uint("master_id", master.ID).Msg("invalid master working hours, treating day as closed")
		return schedule.Interval{}, schedule.Interval{}, false
	}
	salonWH, err := schedule.ParseWeekHours(salon.WorkingHours)
	if err != nil {
		uc.log.Warn().Err(err).Uint("salon_id", salon.ID).Msg("invalid salon working hours, treating day as closed")
		return schedule.Interval{}, schedule.Interval{}, false
	}

	window, open := schedule.DayWindow(masterWH, salonWH, weekday)
	if !open {
		return schedule.Interval{}, schedule.Interval{}, false
	}

	lunch, _ := schedule.LunchInterval(master.LunchStart, master.LunchDurationMin)
	return window, lunch, true
}

// minStartForToday returns the current minute of day when the target
// date is "today" in the master's timezone (salon timezone fallback),
// so already-passed start times get discarded; -1 otherwise.
func minStartForToday(master *models.Master, salon *models.Salon, date string) int {
	tz := master.Timezone
	if tz == "" {
		tz = salon.Timezone
	}
	loc := timezone.Location(tz)

	today, hm := salontime.NowInZone(loc)
	if today != date {
		return -1
	}
	min, err := salontime.MinutesOfDay(hm)
	if err != nil {
		return -1
	}
	return min
}
