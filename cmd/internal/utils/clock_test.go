package utils

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"9:00", 540, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9am", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseClock(%q) accepted, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseClock(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "13:45", "23:59"} {
		min, err := ParseClock(s)
		if err != nil {
			t.Fatalf("ParseClock(%q) failed: %v", s, err)
		}
		if got := FormatClock(min); got != s {
			t.Fatalf("FormatClock(ParseClock(%q)) = %q", s, got)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		year      int
		month     time.Month
		wantStart string
		wantEnd   string
	}{
		{2024, time.January, "2024-01-01", "2024-01-31"},
		{2024, time.February, "2024-02-01", "2024-02-29"},
		{2023, time.February, "2023-02-01", "2023-02-28"},
		{2024, time.December, "2024-12-01", "2024-12-31"},
	}

	for _, tc := range cases {
		start, end := MonthBounds(tc.year, tc.month)
		if start != tc.wantStart || end != tc.wantEnd {
			t.Fatalf("MonthBounds(%d, %v) = %s, %s; want %s, %s",
				tc.year, tc.month, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestFormatEpoch(t *testing.T) {
	// 2024-03-04T09:00:00Z
	millis := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC).UnixMilli()
	if got := FormatEpoch(millis); got != "2024-03-04T09:00:00Z" {
		t.Fatalf("FormatEpoch = %q", got)
	}
}
