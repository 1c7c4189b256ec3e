package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func iv(start, end int) Interval {
	return Interval{Start: start, End: end}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	pairs := [][2]Interval{
		{iv(600, 660), iv(630, 690)},
		{iv(600, 660), iv(660, 720)},
		{iv(600, 660), iv(500, 700)},
		{iv(600, 660), iv(610, 620)},
	}
	for _, p := range pairs {
		assert.Equal(t, p[0].Overlaps(p[1]), p[1].Overlaps(p[0]))
	}
}

func TestOverlapsTouchingEndpoints(t *testing.T) {
	// [10:00, 11:00) and [11:00, 12:00) touch but do not conflict.
	assert.False(t, iv(600, 660).Overlaps(iv(660, 720)))
	assert.False(t, iv(660, 720).Overlaps(iv(600, 660)))

	assert.True(t, iv(600, 661).Overlaps(iv(660, 720)))
}

func TestMerge(t *testing.T) {
	got := Merge([]Interval{
		iv(840, 900),
		iv(540, 600),
		iv(580, 620),
		iv(620, 640), // touching previous, coalesced
	})
	assert.Equal(t, []Interval{iv(540, 640), iv(840, 900)}, got)
}

func TestSubtract(t *testing.T) {
	window := iv(540, 1020) // 09:00-17:00

	gaps := Subtract(window, []Interval{
		iv(600, 645),  // booking 10:00-10:45
		iv(780, 810),  // lunch 13:00-13:30
		iv(500, 560),   // starts before the window
		iv(1000, 1100), // runs past the window
	})

	assert.Equal(t, []Interval{
		iv(560, 600),
		iv(645, 780),
		iv(810, 1000),
	}, gaps)
}

func TestSubtractEmptyOccupied(t *testing.T) {
	window := iv(540, 1080)
	assert.Equal(t, []Interval{window}, Subtract(window, nil))
}

func TestSubtractFullyOccupied(t *testing.T) {
	assert.Empty(t, Subtract(iv(540, 600), []Interval{iv(500, 700)}))
}

func TestFirstConflict(t *testing.T) {
	occupied := []Interval{
		{Start: 855, End: 885, Source: SourceTimeBlock, RefID: 7}, // 14:15-14:45
	}

	// Booking request [14:00, 14:30) against a block [14:15, 14:45).
	hit, found := FirstConflict(iv(840, 870), occupied)
	assert.True(t, found)
	assert.Equal(t, SourceTimeBlock, hit.Source)
	assert.Equal(t, uint(7), hit.RefID)

	_, found = FirstConflict(iv(780, 840), occupied)
	assert.False(t, found)
}

func TestIntervalValid(t *testing.T) {
	assert.True(t, iv(0, 1440).Valid())
	assert.False(t, iv(600, 600).Valid(), "zero duration")
	assert.False(t, iv(660, 600).Valid(), "negative duration")
	assert.False(t, iv(-10, 60).Valid())
	assert.False(t, iv(1400, 1500).Valid(), "spans midnight")
}
