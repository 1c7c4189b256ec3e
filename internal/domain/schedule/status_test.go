package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonflow/salon-scheduler/internal/models"
)

func TestStatusOccupies(t *testing.T) {
	assert.True(t, StatusPending.Occupies())
	assert.True(t, StatusConfirmed.Occupies())
	assert.True(t, StatusCompleted.Occupies())
	assert.True(t, StatusNoShow.Occupies())
	assert.False(t, StatusCancelled.Occupies())
}

func TestTransitions(t *testing.T) {
	now := time.Now()

	b := &models.Booking{Status: string(StatusPending)}
	require.NoError(t, Confirm(b))
	assert.Equal(t, "CONFIRMED", b.Status)

	require.NoError(t, Complete(b, now))
	assert.Equal(t, "COMPLETED", b.Status)
	assert.NotNil(t, b.CompletedAt)

	assert.Error(t, Cancel(b, now), "completed booking cannot be cancelled")
	assert.Error(t, Complete(b, now), "complete is not re-applicable")

	c := &models.Booking{Status: string(StatusConfirmed)}
	require.NoError(t, MarkNoShow(c))
	assert.Equal(t, "NO_SHOW", c.Status)
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	now := time.Now()
	for _, s := range []Status{StatusPending, StatusConfirmed} {
		b := &models.Booking{Status: string(s)}
		require.NoError(t, Cancel(b, now))
		assert.Equal(t, "CANCELLED", b.Status)
		assert.NotNil(t, b.CancelledAt)
	}
}

func TestEndMinutes(t *testing.T) {
	end, err := EndMinutes(&models.Booking{Time: "09:00", TimeEnd: "10:30"})
	require.NoError(t, err)
	assert.Equal(t, 630, end)

	// timeEnd absent: time + duration.
	end, err = EndMinutes(&models.Booking{Time: "09:00", DurationMin: 60})
	require.NoError(t, err)
	assert.Equal(t, 600, end)

	// no duration either: 60-minute default.
	end, err = EndMinutes(&models.Booking{Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, 600, end)
}

func TestBookingInterval(t *testing.T) {
	got, err := BookingInterval(&models.Booking{ID: 3, Time: "10:00", TimeEnd: "10:45"})
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 600, End: 645, Source: SourceBooking, RefID: 3}, got)
}
