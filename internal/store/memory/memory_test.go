package memory

import (
	"context"
	"testing"
	"time"

	"xpense/internal/core"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	records := []core.Record{
		{Title: "coffee", Amount: core.Money{Cents: 12000}, Category: "Food", Timestamp: time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)},
		{Title: "metro", Amount: core.Money{Cents: 4000}, Category: "Travel", Timestamp: time.Date(2025, 8, 12, 18, 0, 0, 0, time.UTC)},
		{Title: "dinner", Amount: core.Money{Cents: 60000}, Category: "Food", Timestamp: time.Date(2025, 8, 13, 20, 0, 0, 0, time.UTC)},
	}
	for _, r := range records {
		if _, err := s.Insert(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
}

func TestInsertAssignsIDs(t *testing.T) {
	s := New(time.UTC)
	id, err := s.Insert(context.Background(), core.Record{
		Title: "a", Amount: core.Money{Cents: 100}, Category: "c",
		Timestamp: time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC),
	})
	if err != nil || id != 1 {
		t.Fatalf("expected id 1, got %d (err=%v)", id, err)
	}
	if _, err := s.Insert(context.Background(), core.Record{Title: "", Amount: core.Money{Cents: 1}, Category: "c"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestQueryRangeDescending(t *testing.T) {
	s := New(time.UTC)
	seed(t, s)
	start := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 13, 23, 59, 59, 0, time.UTC)

	got, err := s.QueryRange(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("not time-descending at %d", i)
		}
	}
}

func TestQueryDuplicate(t *testing.T) {
	s := New(time.UTC)
	seed(t, s)
	start := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 12, 23, 59, 59, 0, time.UTC)

	dup, err := s.QueryDuplicate(context.Background(), "COFFEE", core.Money{Cents: 12000}, start, end)
	if err != nil {
		t.Fatal(err)
	}
	if dup == nil || dup.Title != "coffee" {
		t.Fatalf("expected case-insensitive match, got %+v", dup)
	}

	none, err := s.QueryDuplicate(context.Background(), "coffee", core.Money{Cents: 12001}, start, end)
	if err != nil {
		t.Fatal(err)
	}
	if none != nil {
		t.Fatalf("amount must match exactly, got %+v", none)
	}
}

func TestSumAndTotals(t *testing.T) {
	s := New(time.UTC)
	seed(t, s)
	start := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 13, 23, 59, 59, 0, time.UTC)

	sum, err := s.SumRange(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Cents != 76000 {
		t.Fatalf("sum: got %d", sum.Cents)
	}

	daily, err := s.DailyTotals(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(daily) != 2 || daily[0].Day != "2025-08-12" || daily[0].Total.Cents != 16000 {
		t.Fatalf("daily totals: %+v", daily)
	}

	cats, err := s.CategoryTotals(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].Category != "Food" || cats[0].Total.Cents != 72000 {
		t.Fatalf("category totals: %+v", cats)
	}
}
