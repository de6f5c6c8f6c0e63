// Package services orchestrates record entry: validation, duplicate
// detection, persistence and the best-effort sync hand-off.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"xpense/internal/core"
	"xpense/internal/store"
)

// SyncPublisher queues a record for asynchronous export. Implemented by
// the AMQP client; nil disables the hand-off.
type SyncPublisher interface {
	PublishRecordSync(ctx context.Context, id, version int64) error
}

// Submission is the raw user input for one expense entry. Amount arrives
// as text exactly as typed.
type Submission struct {
	Title      string
	AmountText string
	Category   string
	Timestamp  time.Time
	Notes      string
	ImageRef   string
}

// EntryService gates record creation: checks run in a fixed order and
// short-circuit at the first failure, then the store performs the insert.
type EntryService struct {
	writer    store.RecordWriter
	querier   store.RecordQuerier
	publisher SyncPublisher
	loc       *time.Location
}

func NewEntryService(w store.RecordWriter, q store.RecordQuerier, pub SyncPublisher, loc *time.Location) *EntryService {
	if loc == nil {
		loc = time.Local
	}
	return &EntryService{writer: w, querier: q, publisher: pub, loc: loc}
}

// Submit validates the submission and persists it. Failures are the
// recoverable input errors from core (ErrEmptyTitle, ErrInvalidAmount,
// ErrEmptyCategory, ErrDuplicateExpense, ErrInsertFailed); on success the
// stored record is
// returned and a sync message is published best-effort.
func (s *EntryService) Submit(ctx context.Context, sub Submission) (core.Record, error) {
	// Unparsable amounts count as zero and fail the amount check below,
	// after the title check has had its turn.
	cents, _ := core.ParseDecimalToCents(sub.AmountText)

	title := strings.TrimSpace(sub.Title)
	if title == "" {
		return core.Record{}, core.ErrEmptyTitle
	}
	if cents <= 0 {
		return core.Record{}, core.ErrInvalidAmount
	}
	amount := core.Money{Cents: cents}

	category := strings.TrimSpace(sub.Category)
	if category == "" {
		return core.Record{}, core.ErrEmptyCategory
	}

	if dup := s.findDuplicate(ctx, title, amount, sub.Timestamp); dup != nil {
		return core.Record{}, core.ErrDuplicateExpense
	}

	rec := core.Record{
		Title:     title,
		Amount:    amount,
		Category:  category,
		Timestamp: sub.Timestamp,
		Notes:     core.TruncateNotes(sub.Notes),
		ImageRef:  sub.ImageRef,
	}

	id, err := s.writer.Insert(ctx, rec)
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %v", core.ErrInsertFailed, err)
	}
	if id <= 0 {
		return core.Record{}, core.ErrInsertFailed
	}
	rec.ID = id

	s.publishSync(ctx, id)
	return rec, nil
}

// findDuplicate looks for a record with the same local calendar day,
// case-insensitive trimmed title and exactly equal amount. A failing
// lookup is treated as no match, matching the "absence of data" contract
// for collaborator failures.
func (s *EntryService) findDuplicate(ctx context.Context, title string, amount core.Money, ts time.Time) *core.Record {
	start := core.StartOfDay(ts, s.loc)
	end := core.EndOfDay(ts, s.loc)
	dup, err := s.querier.QueryDuplicate(ctx, title, amount, start, end)
	if err != nil {
		slog.WarnContext(ctx, "Duplicate lookup failed, accepting entry", "error", err, "title", title)
		return nil
	}
	return dup
}

func (s *EntryService) publishSync(ctx context.Context, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordSync(ctx, id, 1); err != nil {
		// The record is saved locally; sync catches up via the worker's
		// pending sweep.
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}
