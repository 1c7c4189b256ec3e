package salontime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinalOrdering(t *testing.T) {
	cases := []struct {
		earlier     [2]string
		later       [2]string
		description string
	}{
		{[2]string{"2026-03-01", "09:00"}, [2]string{"2026-03-01", "09:01"}, "same day"},
		{[2]string{"2026-02-28", "23:59"}, [2]string{"2026-03-01", "00:00"}, "month boundary"},
		{[2]string{"2026-12-31", "23:59"}, [2]string{"2027-01-01", "00:00"}, "year boundary"},
		{[2]string{"2028-02-28", "12:00"}, [2]string{"2028-02-29", "12:00"}, "leap day"},
	}

	for _, c := range cases {
		a, err := Ordinal(c.earlier[0], c.earlier[1])
		require.NoError(t, err, c.description)
		b, err := Ordinal(c.later[0], c.later[1])
		require.NoError(t, err, c.description)
		assert.Less(t, a, b, c.description)
	}
}

func TestOrdinalMinuteDifference(t *testing.T) {
	a, err := Ordinal("2026-03-01", "09:00")
	require.NoError(t, err)
	b, err := Ordinal("2026-03-01", "10:30")
	require.NoError(t, err)
	assert.Equal(t, int64(90), b-a)
}

func TestOrdinalInvalidInput(t *testing.T) {
	_, err := Ordinal("2026-13-01", "09:00")
	assert.Error(t, err)
	_, err = Ordinal("2026-03-01", "25:00")
	assert.Error(t, err)
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2026-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got)

	got, err = AddDays("2026-01-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", got)

	// DST transition in Europe/Kiev is on 2026-03-29; noon anchoring
	// keeps plain day arithmetic stable across it.
	got, err = AddDays("2026-03-28", 2)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-30", got)
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2026-08-24")
	require.NoError(t, err)
	assert.Equal(t, "monday", wd)

	wd, err = Weekday("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "sunday", wd)
}

func TestMinutesOfDayRoundTrip(t *testing.T) {
	min, err := MinutesOfDay("13:45")
	require.NoError(t, err)
	assert.Equal(t, 825, min)
	assert.Equal(t, "13:45", FormatMinutes(min))

	_, err = MinutesOfDay("9:00")
	assert.Error(t, err, "single-digit hour is not a valid HH:MM value")
}

func TestNowInZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kiev")
	require.NoError(t, err)

	date, hm := NowInZone(loc)
	assert.True(t, IsValidDate(date))
	assert.True(t, IsValidTime(hm))

	want := time.Now().In(loc)
	assert.Equal(t, want.Format(DateLayout), date)
}
