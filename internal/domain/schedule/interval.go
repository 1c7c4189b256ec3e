// Package schedule holds the appointment scheduling core: interval
// math over salon-local minutes, slot generation, working-hours
// resolution and the booking status lifecycle.
package schedule

import "sort"

const (
	SourceBooking   = "booking"
	SourceTimeBlock = "timeblock"

	// Minutes-from-midnight bounds of a single calendar day. Bookings
	// and blocks never span midnight; such input must be split by the
	// caller into same-day intervals.
	DayStart = 0
	DayEnd   = 24 * 60
)

// Interval is a half-open [Start, End) time range in minutes from
// midnight on one calendar date.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`

	// Source and RefID identify the occupying record for conflict
	// reporting; empty for synthetic intervals (working window, lunch).
	Source string `json:"source,omitempty"`
	RefID  uint   `json:"ref_id,omitempty"`
}

func (i Interval) Valid() bool {
	return i.Start >= DayStart && i.End <= DayEnd && i.Start < i.End
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not conflict.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Merge sorts intervals by start and coalesces overlapping or touching
// ones into a disjoint ascending set.
func Merge(intervals []Interval) []Interval {
	if len(intervals) <= 1 {
		return intervals
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Start < sorted[b].Start })

	out := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Subtract removes the occupied set from the window, yielding the
// disjoint free gaps in ascending order.
func Subtract(window Interval, occupied []Interval) []Interval {
	var gaps []Interval
	cursor := window.Start

	for _, iv := range Merge(occupied) {
		if iv.End <= window.Start || iv.Start >= window.End {
			continue
		}
		if iv.Start > cursor {
			gaps = append(gaps, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}

	if cursor < window.End {
		gaps = append(gaps, Interval{Start: cursor, End: window.End})
	}
	return gaps
}

// FirstConflict returns the first occupied interval overlapping the
// candidate, if any. Overlap is binary; no preference ordering.
func FirstConflict(candidate Interval, occupied []Interval) (Interval, bool) {
	for _, iv := range occupied {
		if candidate.Overlaps(iv) {
			return iv, true
		}
	}
	return Interval{}, false
}
