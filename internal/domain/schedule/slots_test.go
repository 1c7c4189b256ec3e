package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func slotStarts(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}

func TestSlotsEmptyDayCoversFullWindow(t *testing.T) {
	// 09:00-18:00, no lunch, no bookings, 30-minute service.
	slots := Slots(SlotInput{
		Window:      iv(540, 1080),
		DurationMin: 30,
		StepMin:     30,
		MinStart:    -1,
	})

	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "17:30", slots[len(slots)-1].Start)
	assert.Equal(t, "18:00", slots[len(slots)-1].End)
	assert.Len(t, slots, 18)
}

func TestSlotsAroundBookingAndLunch(t *testing.T) {
	// Working 09:00-17:00, lunch 13:00-13:30, booking 10:00-10:45,
	// 30-minute service at 15-minute granularity.
	slots := Slots(SlotInput{
		Window:      iv(540, 1020),
		Lunch:       iv(780, 810),
		Occupied:    []Interval{{Start: 600, End: 645, Source: SourceBooking}},
		DurationMin: 30,
		StepMin:     15,
		MinStart:    -1,
	})

	starts := slotStarts(slots)
	assert.Contains(t, starts, "09:30")
	assert.NotContains(t, starts, "09:45", "would overlap the 10:00 booking")
	assert.NotContains(t, starts, "13:00", "lunch")
	assert.NotContains(t, starts, "13:15", "lunch")
	assert.Contains(t, starts, "13:30")
}

func TestSlotsStayOnGridAfterOddBookingEnd(t *testing.T) {
	// Booking ends 10:45; next 30-minute grid candidate is 11:00.
	slots := Slots(SlotInput{
		Window:      iv(540, 720),
		Occupied:    []Interval{{Start: 600, End: 645}},
		DurationMin: 30,
		StepMin:     30,
		MinStart:    -1,
	})
	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, slotStarts(slots))
}

func TestSlotsDiscardPassedTimesToday(t *testing.T) {
	slots := Slots(SlotInput{
		Window:      iv(540, 720),
		DurationMin: 30,
		StepMin:     30,
		MinStart:    600, // local now 10:00
	})
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, slotStarts(slots))
}

func TestSlotsInvalidInput(t *testing.T) {
	assert.Empty(t, Slots(SlotInput{Window: iv(540, 1080), DurationMin: 0, MinStart: -1}))
	assert.Empty(t, Slots(SlotInput{Window: iv(540, 1080), DurationMin: -15, MinStart: -1}))
	assert.Empty(t, Slots(SlotInput{Window: iv(600, 540), DurationMin: 30, MinStart: -1}))
}

func TestSlotsGapShorterThanDuration(t *testing.T) {
	// 20-minute gap cannot host a 30-minute service.
	slots := Slots(SlotInput{
		Window:      iv(540, 660),
		Occupied:    []Interval{{Start: 560, End: 640}},
		DurationMin: 30,
		StepMin:     30,
		MinStart:    -1,
	})
	assert.Empty(t, slotStarts(slots))
}
