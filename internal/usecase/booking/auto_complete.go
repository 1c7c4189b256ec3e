package booking

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/salonflow/salon-scheduler/internal/domain/schedule"
	"github.com/salonflow/salon-scheduler/internal/metrics"
	"github.com/salonflow/salon-scheduler/internal/salontime"
	"github.com/salonflow/salon-scheduler/internal/timezone"
)

// AutoComplete is the sweeper: it flips CONFIRMED bookings whose end
// time has passed (in the master's local timezone, for the current
// local date) to COMPLETED. Idempotent — a second run on the same
// "now" finds nothing left to flip. Past dates are left alone, future
// dates are never touched.
type AutoComplete struct {
	repo schedule.Repository
	log  zerolog.Logger
}

func NewAutoComplete(repo schedule.Repository, log zerolog.Logger) *AutoComplete {
	return &AutoComplete{
		repo: repo,
		log:  log.With().Str("component", "auto_complete").Logger(),
	}
}

// ExecuteForMaster sweeps one master and returns how many bookings
// were completed.
func (uc *AutoComplete) ExecuteForMaster(
	ctx context.Context,
	salonID uint,
	masterID uint,
) (int, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return 0, err
	}

	master, err := uc.repo.GetMaster(ctx, salonID, masterID)
	if err != nil {
		return 0, err
	}

	tz := master.Timezone
	if tz == "" {
		tz = salon.Timezone
	}
	loc := timezone.Location(tz)

	today, hm := salontime.NowInZone(loc)
	nowMin, err := salontime.MinutesOfDay(hm)
	if err != nil {
		return 0, err
	}

	candidates, err := uc.repo.ListConfirmedForDate(ctx, masterID, today)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range candidates {
		b := &candidates[i]

		endMin, err := schedule.EndMinutes(b)
		if err != nil {
			uc.log.Warn().Err(err).Uint("booking_id", b.ID).Msg("skipping booking with malformed time")
			continue
		}
		if endMin > nowMin {
			continue
		}

		now := timezone.NowIn(tz)
		if err := schedule.Complete(b, now); err != nil {
			continue
		}
		if err := uc.repo.CompleteBooking(ctx, b); err != nil {
			return completed, err
		}
		completed++
	}

	if completed > 0 {
		metrics.AddAutoCompleted(completed)
		uc.log.Info().
			Uint("master_id", masterID).
			Str("date", today).
			Int("completed", completed).
			Msg("auto-completed elapsed bookings")
	}

	return completed, nil
}

// ExecuteForSalon sweeps every active master of a salon; used by the
// hourly background tick and the owner dashboard.
func (uc *AutoComplete) ExecuteForSalon(
	ctx context.Context,
	salonID uint,
) (int, error) {

	masters, err := uc.repo.ListActiveMasters(ctx, salonID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, m := range masters {
		n, err := uc.ExecuteForMaster(ctx, salonID, m.ID)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
