package core

import "time"

// Timestamps are stored as UTC instants; day bucketing interprets them in
// the viewer's calendar, passed around as an explicit *time.Location so
// tests can pin a zone.

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's calendar day in loc. The duplicate
// check and range queries treat both bounds as inclusive.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// DayKey returns the calendar date key (YYYY-MM-DD) of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// LastNDaysRange returns the inclusive instant range covering the trailing
// days-day window ending at now's calendar day.
func LastNDaysRange(now time.Time, days int, loc *time.Location) (time.Time, time.Time) {
	if days < 1 {
		days = 1
	}
	end := EndOfDay(now, loc)
	start := StartOfDay(now.In(loc).AddDate(0, 0, -(days-1)), loc)
	return start, end
}
