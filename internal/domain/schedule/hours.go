package schedule

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/salonflow/salon-scheduler/internal/salontime"
)

// DayHours is one weekday entry of a working-hours map.
type DayHours struct {
	Start   string `json:"start"` // HH:MM
	End     string `json:"end"`
	Enabled bool   `json:"enabled"`
}

// WeekHours maps lowercase weekday names ("monday"…) to day config.
type WeekHours map[string]DayHours

// ParseWeekHours decodes a stored working-hours JSON column. A nil or
// empty column yields a nil map (meaning: no override / not set).
func ParseWeekHours(raw datatypes.JSON) (WeekHours, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var wh WeekHours
	if err := json.Unmarshal(raw, &wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// DayWindow resolves the working interval for one weekday, master
// hours taking priority over the salon default. ok=false means the day
// is closed — either explicitly disabled, unconfigured, or carrying
// invalid times. Bad config never invents availability.
func DayWindow(masterWH, salonWH WeekHours, weekday string) (Interval, bool) {
	wh := masterWH
	if wh == nil {
		wh = salonWH
	}
	if wh == nil {
		return Interval{}, false
	}

	day, found := wh[weekday]
	if !found || !day.Enabled || day.Start == "" || day.End == "" {
		return Interval{}, false
	}

	start, err := salontime.MinutesOfDay(day.Start)
	if err != nil {
		return Interval{}, false
	}
	end, err := salontime.MinutesOfDay(day.End)
	if err != nil {
		return Interval{}, false
	}

	window := Interval{Start: start, End: end}
	if !window.Valid() {
		return Interval{}, false
	}
	return window, true
}

// LunchInterval builds the fixed lunch break from master config.
// ok=false when no valid lunch is configured.
func LunchInterval(lunchStart string, durationMin int) (Interval, bool) {
	if lunchStart == "" || durationMin <= 0 {
		return Interval{}, false
	}
	start, err := salontime.MinutesOfDay(lunchStart)
	if err != nil {
		return Interval{}, false
	}
	lunch := Interval{Start: start, End: start + durationMin}
	if lunch.End > DayEnd {
		lunch.End = DayEnd
	}
	return lunch, true
}
