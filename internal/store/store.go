// Package store defines the ports implemented by record backends.
package store

import (
	"context"
	"time"

	"xpense/internal/core"
)

type (
	RecordWriter interface {
		// Insert persists a record and returns its assigned id.
		Insert(ctx context.Context, r core.Record) (int64, error)
	}

	RecordQuerier interface {
		// QueryRange returns records with start <= timestamp <= end,
		// ordered by timestamp descending.
		QueryRange(ctx context.Context, start, end time.Time) ([]core.Record, error)

		// QueryDuplicate returns a record in [start, end] whose trimmed
		// title matches case-insensitively and whose amount is exactly
		// equal, or nil when none exists.
		QueryDuplicate(ctx context.Context, title string, amount core.Money, start, end time.Time) (*core.Record, error)

		// SumRange returns the summed amount over [start, end]. An empty
		// window sums to zero.
		SumRange(ctx context.Context, start, end time.Time) (core.Money, error)
	}

	// ReportReader provides grouped and summed totals computed backend-side.
	ReportReader interface {
		// DailyTotals returns per-day sums over [start, end] in ascending
		// day order. Days without records are absent; callers zero-fill.
		DailyTotals(ctx context.Context, start, end time.Time) ([]core.DailyTotal, error)

		// CategoryTotals returns per-category sums over [start, end]
		// ordered by descending total.
		CategoryTotals(ctx context.Context, start, end time.Time) ([]core.CategoryTotal, error)
	}

	// RecordSource is the full backend contract.
	RecordSource interface {
		RecordWriter
		RecordQuerier
		ReportReader
	}
)
