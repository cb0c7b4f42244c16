package utils

import (
	"errors"
	"fmt"
	"time"
)

// Clock values are "HH:MM" wall-clock strings; all interval math is done
// in minutes since midnight. Appointments never cross a day boundary.

var errBadClock = errors.New("invalid clock time, expected HH:MM")

func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errBadClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// MonthBounds returns the first and last calendar day of a month,
// both as "YYYY-MM-DD".
func MonthBounds(year int, month time.Month) (string, string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return FormatDate(start), FormatDate(end)
}
