// Package worktime derives worked hours from wall-clock start and end times.
package worktime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ClockTime is a time of day with minute precision and no date or zone.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" value.
func ParseClock(value string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return ClockTime{}, fmt.Errorf("clock time %q: expected HH:MM", value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("clock time %q: hour out of range", value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("clock time %q: minute out of range", value)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Hours returns the time worked from start to end, rounded half away from
// zero to one decimal. An end at or before start crosses midnight, so equal
// values yield a full 24 hours.
func Hours(start, end ClockTime) float64 {
	diff := end.Minutes() - start.Minutes()
	if diff <= 0 {
		diff += minutesPerDay
	}
	// tenths of an hour are six-minute units
	return math.Round(float64(diff)/6) / 10
}

// HoursBetween parses both values and returns Hours.
func HoursBetween(start, end string) (float64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return Hours(s, e), nil
}
