// Package report turns raw records and backend totals into display-ready
// daily and category buckets.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"xpense/internal/core"
	"xpense/internal/store"
)

// Aggregator reads grouped totals from a backend and applies the display
// contract: zero-filled trailing daily windows and stable descending
// category ordering.
type Aggregator struct {
	src store.ReportReader
	loc *time.Location
}

func NewAggregator(src store.ReportReader, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{src: src, loc: loc}
}

// DailyWindow returns exactly days entries for the trailing window ending
// at now's calendar day, oldest first, with zero totals for empty days.
func (a *Aggregator) DailyWindow(ctx context.Context, now time.Time, days int) ([]core.DailyTotal, error) {
	start, end := core.LastNDaysRange(now, days, a.loc)
	totals, err := a.src.DailyTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily totals %s..%s: %w", core.DayKey(start, a.loc), core.DayKey(end, a.loc), err)
	}
	return ZeroFillDaily(totals, now, days, a.loc), nil
}

// CategoryTotals returns per-category sums over [start, end] ordered by
// descending total.
func (a *Aggregator) CategoryTotals(ctx context.Context, start, end time.Time) ([]core.CategoryTotal, error) {
	totals, err := a.src.CategoryTotals(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	// Backends order by total; enforce it here so the display contract
	// does not depend on backend SQL details. Stable keeps ties as
	// delivered.
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.Cents > totals[j].Total.Cents
	})
	return totals, nil
}

// ZeroFillDaily synthesizes a complete trailing window of days entries
// ending at now's calendar day from sparse per-day totals.
func ZeroFillDaily(totals []core.DailyTotal, now time.Time, days int, loc *time.Location) []core.DailyTotal {
	if days < 1 {
		days = 1
	}
	byDay := make(map[string]core.Money, len(totals))
	for _, dt := range totals {
		byDay[dt.Day] = dt.Total
	}
	out := make([]core.DailyTotal, 0, days)
	local := now.In(loc)
	for i := days - 1; i >= 0; i-- {
		key := core.DayKey(local.AddDate(0, 0, -i), loc)
		out = append(out, core.DailyTotal{Day: key, Total: byDay[key]})
	}
	return out
}

// GroupDaily sums records by calendar day in loc, ascending day order.
func GroupDaily(records []core.Record, loc *time.Location) []core.DailyTotal {
	byDay := make(map[string]core.Money)
	for _, r := range records {
		key := core.DayKey(r.Timestamp, loc)
		byDay[key] = byDay[key].Add(r.Amount)
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]core.DailyTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, core.DailyTotal{Day: k, Total: byDay[k]})
	}
	return out
}

// GroupCategories sums records by exact category string, ordered by
// descending total with ties in first-encountered order.
func GroupCategories(records []core.Record) []core.CategoryTotal {
	index := make(map[string]int)
	var out []core.CategoryTotal
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			index[r.Category] = len(out)
			out = append(out, core.CategoryTotal{Category: r.Category})
			i = len(out) - 1
		}
		out[i].Total = out[i].Total.Add(r.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}
