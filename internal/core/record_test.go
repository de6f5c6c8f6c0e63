package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRecordValidate(t *testing.T) {
	ts := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)
	good := Record{Title: "Groceries", Amount: Money{Cents: 45000}, Category: "Food", Timestamp: ts}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		rec  Record
		want error
	}{
		{"blank title", Record{Title: "   ", Amount: Money{Cents: 100}, Category: "Food", Timestamp: ts}, ErrEmptyTitle},
		{"zero amount", Record{Title: "a", Amount: Money{}, Category: "Food", Timestamp: ts}, ErrInvalidAmount},
		{"blank category", Record{Title: "a", Amount: Money{Cents: 100}, Category: " ", Timestamp: ts}, ErrEmptyCategory},
	}
	for _, tc := range cases {
		err := tc.rec.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if err := (Record{Title: "a", Amount: Money{Cents: 1}, Category: "c"}).Validate(); err == nil {
		t.Fatalf("expected error for zero timestamp")
	}
}

func TestTruncateNotes(t *testing.T) {
	short := "lunch with team"
	if got := TruncateNotes(short); got != short {
		t.Fatalf("short notes changed: %q", got)
	}
	long := strings.Repeat("x", 150)
	got := TruncateNotes(long)
	if len([]rune(got)) != MaxNotesLen {
		t.Fatalf("expected %d runes, got %d", MaxNotesLen, len([]rune(got)))
	}
	if got != long[:MaxNotesLen] {
		t.Fatalf("unexpected truncation result")
	}
}
