package core

import (
	"testing"
	"time"
)

func TestDayBoundaries(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}
	// 2025-08-14 20:00 UTC is already 2025-08-15 01:30 in Kolkata.
	ts := time.Date(2025, 8, 14, 20, 0, 0, 0, time.UTC)

	if got := DayKey(ts, time.UTC); got != "2025-08-14" {
		t.Fatalf("UTC day key: got %q", got)
	}
	if got := DayKey(ts, loc); got != "2025-08-15" {
		t.Fatalf("local day key: got %q", got)
	}

	start := StartOfDay(ts, loc)
	end := EndOfDay(ts, loc)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("start of day not midnight: %v", start)
	}
	if got := end.Sub(start); got != 24*time.Hour-time.Millisecond {
		t.Fatalf("end-start span: got %v", got)
	}
	if DayKey(start, loc) != DayKey(end, loc) {
		t.Fatalf("start and end on different days")
	}
}

func TestLastNDaysRange(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 8, 14, 15, 30, 0, 0, loc)

	start, end := LastNDaysRange(now, 7, loc)
	if got := DayKey(start, loc); got != "2025-08-08" {
		t.Fatalf("start day: got %q", got)
	}
	if got := DayKey(end, loc); got != "2025-08-14" {
		t.Fatalf("end day: got %q", got)
	}
	if !end.After(start) {
		t.Fatalf("end not after start")
	}

	// A 1-day window covers just today; degenerate N clamps to 1.
	for _, days := range []int{1, 0, -3} {
		s, e := LastNDaysRange(now, days, loc)
		if DayKey(s, loc) != "2025-08-14" || DayKey(e, loc) != "2025-08-14" {
			t.Fatalf("days=%d: got [%s, %s]", days, DayKey(s, loc), DayKey(e, loc))
		}
	}
}
