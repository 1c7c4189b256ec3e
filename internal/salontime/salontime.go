// Package salontime works with "salon-local naive" date/time values:
// YYYY-MM-DD dates and HH:MM times that carry no UTC offset and are
// interpreted in the salon's IANA timezone only at "now" boundaries.
package salontime

import (
	"fmt"
	"regexp"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

func IsValidDate(date string) bool {
	if !dateRe.MatchString(date) {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

func IsValidTime(t string) bool {
	if !timeRe.MatchString(t) {
		return false
	}
	_, err := time.Parse(TimeLayout, t)
	return err == nil
}

// NowInZone returns the current wall-clock date and time as rendered
// in the given zone. loc must come from timezone.Location so an
// invalid zone never reaches this point.
func NowInZone(loc *time.Location) (date string, hm string) {
	now := time.Now().In(loc)
	return now.Format(DateLayout), now.Format(TimeLayout)
}

// Ordinal maps a local (date, time) pair to a minute count on the real
// calendar, suitable for ordering and subtraction of same-zone values.
func Ordinal(date string, hm string) (int64, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	t, err := time.Parse(TimeLayout, hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	local := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return local.Unix() / 60, nil
}

// MinutesUntil returns the signed minute difference between the given
// local date/time and "now" in the same zone. Positive means future.
func MinutesUntil(date string, hm string, loc *time.Location) (int, error) {
	target, err := Ordinal(date, hm)
	if err != nil {
		return 0, err
	}
	nowDate, nowHM := NowInZone(loc)
	now, err := Ordinal(nowDate, nowHM)
	if err != nil {
		return 0, err
	}
	return int(target - now), nil
}

// AddDays shifts a date by n calendar days. Anchored at noon so DST
// transitions cannot move the result across a date boundary.
func AddDays(date string, n int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	return noon.AddDate(0, 0, n).Format(DateLayout), nil
}

// Weekday returns the lowercase weekday name ("monday"…) used as the
// key of working-hours maps.
func Weekday(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	switch d.Weekday() {
	case time.Monday:
		return "monday", nil
	case time.Tuesday:
		return "tuesday", nil
	case time.Wednesday:
		return "wednesday", nil
	case time.Thursday:
		return "thursday", nil
	case time.Friday:
		return "friday", nil
	case time.Saturday:
		return "saturday", nil
	}
	return "sunday", nil
}

// MinutesOfDay converts "HH:MM" to minutes from midnight.
func MinutesOfDay(hm string) (int, error) {
	if !IsValidTime(hm) {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	t, _ := time.Parse(TimeLayout, hm)
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes converts minutes from midnight back to "HH:MM".
func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
