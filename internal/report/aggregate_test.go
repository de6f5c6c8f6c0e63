package report

import (
	"context"
	"testing"
	"time"

	"xpense/internal/core"
)

func rec(day int, hour int, title, cat string, cents int64) core.Record {
	return core.Record{
		Title:     title,
		Amount:    core.Money{Cents: cents},
		Category:  cat,
		Timestamp: time.Date(2025, 8, day, hour, 0, 0, 0, time.UTC),
	}
}

func TestGroupDaily(t *testing.T) {
	records := []core.Record{
		rec(12, 9, "coffee", "Food", 500),
		rec(12, 18, "dinner", "Food", 3000),
		rec(14, 8, "bus", "Travel", 150),
	}
	got := GroupDaily(records, time.UTC)
	want := []core.DailyTotal{
		{Day: "2025-08-12", Total: core.Money{Cents: 3500}},
		{Day: "2025-08-14", Total: core.Money{Cents: 150}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestGroupDailyLocalCalendar(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}
	// 21:00 UTC on the 12th is 02:30 on the 13th in Kolkata.
	records := []core.Record{rec(12, 21, "late snack", "Food", 700)}
	got := GroupDaily(records, loc)
	if len(got) != 1 || got[0].Day != "2025-08-13" {
		t.Fatalf("expected single 2025-08-13 bucket, got %+v", got)
	}
}

func TestGroupCategories(t *testing.T) {
	records := []core.Record{
		rec(12, 9, "bus", "Travel", 100),
		rec(12, 10, "coffee", "Food", 500),
		rec(12, 11, "snacks", "Food", 200),
		rec(12, 12, "movie", "Fun", 100),
	}
	got := GroupCategories(records)
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	if got[0].Category != "Food" || got[0].Total.Cents != 700 {
		t.Fatalf("top category: got %+v", got[0])
	}
	// Travel and Fun tie at 100; Travel was encountered first.
	if got[1].Category != "Travel" || got[2].Category != "Fun" {
		t.Fatalf("tie order not stable: got %s then %s", got[1].Category, got[2].Category)
	}
}

func TestZeroFillDaily(t *testing.T) {
	now := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	sparse := []core.DailyTotal{
		{Day: "2025-08-10", Total: core.Money{Cents: 1200}},
		{Day: "2025-08-14", Total: core.Money{Cents: 300}},
	}
	got := ZeroFillDaily(sparse, now, 7, time.UTC)
	if len(got) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(got))
	}
	if got[0].Day != "2025-08-08" || got[6].Day != "2025-08-14" {
		t.Fatalf("window bounds: got %s..%s", got[0].Day, got[6].Day)
	}
	var sum int64
	for i, dt := range got {
		if i > 0 && got[i-1].Day >= dt.Day {
			t.Fatalf("not ascending at %d: %s >= %s", i, got[i-1].Day, dt.Day)
		}
		sum += dt.Total.Cents
	}
	if sum != 1500 {
		t.Fatalf("window sum: expected 1500, got %d", sum)
	}
	if got[2].Total.Cents != 1200 || got[6].Total.Cents != 300 {
		t.Fatalf("totals misplaced: %+v", got)
	}
}

func TestZeroFillDailyEmptyInput(t *testing.T) {
	now := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	got := ZeroFillDaily(nil, now, 7, time.UTC)
	if len(got) != 7 {
		t.Fatalf("expected 7 zero entries, got %d", len(got))
	}
	for _, dt := range got {
		if dt.Total.Cents != 0 {
			t.Fatalf("expected zero total for %s, got %d", dt.Day, dt.Total.Cents)
		}
	}
}

type stubReader struct {
	daily []core.DailyTotal
	cats  []core.CategoryTotal
}

func (s stubReader) DailyTotals(context.Context, time.Time, time.Time) ([]core.DailyTotal, error) {
	return s.daily, nil
}

func (s stubReader) CategoryTotals(context.Context, time.Time, time.Time) ([]core.CategoryTotal, error) {
	return s.cats, nil
}

func TestAggregatorDailyWindow(t *testing.T) {
	now := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	agg := NewAggregator(stubReader{daily: []core.DailyTotal{
		{Day: "2025-08-13", Total: core.Money{Cents: 2500}},
	}}, time.UTC)

	got, err := agg.DailyWindow(context.Background(), now, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(got))
	}
	if got[5].Day != "2025-08-13" || got[5].Total.Cents != 2500 {
		t.Fatalf("expected total on 2025-08-13, got %+v", got[5])
	}
}

func TestAggregatorCategoryOrdering(t *testing.T) {
	agg := NewAggregator(stubReader{cats: []core.CategoryTotal{
		{Category: "Travel", Total: core.Money{Cents: 100}},
		{Category: "Food", Total: core.Money{Cents: 900}},
		{Category: "Fun", Total: core.Money{Cents: 100}},
	}}, time.UTC)

	got, err := agg.CategoryTotals(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Category != "Food" {
		t.Fatalf("expected Food first, got %s", got[0].Category)
	}
	if got[1].Category != "Travel" || got[2].Category != "Fun" {
		t.Fatalf("tie order changed: %s then %s", got[1].Category, got[2].Category)
	}
}
