// Package worker syncs persisted records to the Google Sheets export target.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"xpense/internal/amqp"
	"xpense/internal/core"
	"xpense/internal/storage"
)

// RecordAppender is the export target, one row per record.
type RecordAppender interface {
	Append(ctx context.Context, rec core.Record) (string, error)
}

// SyncWorker moves records from SQLite to the export target, driven by
// AMQP messages with a periodic sweep as backup.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	target    RecordAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, target RecordAppender, batchSize int) *SyncWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &SyncWorker{
		storage:   storage,
		target:    target,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single record sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	rec, err := w.storage.GetRecord(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get record from storage: %w", err)
	}

	if err := w.syncRecord(ctx, msg.ID, rec); err != nil {
		return fmt.Errorf("sync record: %w", err)
	}

	return nil
}

// ProcessPendingRecords sweeps records that never got a sync message,
// the backup path for lost AMQP deliveries.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains the pending backlog accumulated while the
// worker was down. Uses a larger batch than the periodic sweep.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	ids, err := w.storage.PendingSync(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(ids))

	synced := 0
	failed := 0
	for _, id := range ids {
		rec, err := w.storage.GetRecord(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending record", "id", id, "error", err)
			if err := w.storage.MarkSyncError(ctx, id); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
			}
			failed++
			continue
		}

		if err := w.syncRecord(ctx, id, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending record", "id", id, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Pending sweep completed",
		"total", len(ids),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) syncRecord(ctx context.Context, id int64, rec core.Record) error {
	ref, err := w.target.Append(ctx, rec)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to export target: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row landed; a stale pending flag just means a duplicate
		// append on the next sweep.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced record",
		"id", id,
		"export_ref", ref,
		"title", rec.Title,
		"amount_cents", rec.Amount.Cents)

	return nil
}
