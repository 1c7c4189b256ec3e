package schedule

import "github.com/salonflow/salon-scheduler/internal/salontime"

// DefaultSlotStepMin is the platform slot granularity.
const DefaultSlotStepMin = 30

type Slot struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`
}

// SlotInput describes one availability computation. All times are
// salon-local minutes from midnight; Lunch is optional (End <= Start
// means no lunch).
type SlotInput struct {
	Window      Interval
	Lunch       Interval
	Occupied    []Interval
	DurationMin int
	StepMin     int

	// MinStart discards candidates starting at or before it; set to
	// the current local time when the target date is "today", and to
	// a negative value otherwise.
	MinStart int
}

// Slots computes the free start times for one master and date:
// subtract lunch and occupied intervals from the working window, then
// emit step-aligned candidates whose [start, start+duration) fits
// entirely inside a free gap.
func Slots(in SlotInput) []Slot {
	if in.DurationMin <= 0 || !in.Window.Valid() {
		return nil
	}

	step := in.StepMin
	if step <= 0 {
		step = DefaultSlotStepMin
	}

	occupied := in.Occupied
	if in.Lunch.Start < in.Lunch.End {
		occupied = append(append([]Interval{}, occupied...), in.Lunch)
	}

	slots := []Slot{}
	for _, gap := range Subtract(in.Window, occupied) {
		// Candidates stay on the global step grid, not the gap start.
		start := gap.Start
		if rem := start % step; rem != 0 {
			start += step - rem
		}
		for ; start+in.DurationMin <= gap.End; start += step {
			if start <= in.MinStart {
				continue
			}
			slots = append(slots, Slot{
				Start: salontime.FormatMinutes(start),
				End:   salontime.FormatMinutes(start + in.DurationMin),
			})
		}
	}
	return slots
}
