// Package storage is the SQLite record backend.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xpense/internal/core"
	"xpense/internal/report"
	"xpense/internal/store"

	_ "modernc.org/sqlite"
)

// Sync bookkeeping states for the export worker.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db  *sql.DB
	loc *time.Location
}

var _ store.RecordSource = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLiteRepository, error) {
	if loc == nil {
		loc = time.Local
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, loc: loc}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec core.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO records (title, amount_cents, category, timestamp_ms, notes, image_ref)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Title, rec.Amount.Cents, rec.Category, rec.Timestamp.UnixMilli(), rec.Notes, rec.ImageRef)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", id,
		"title", rec.Title,
		"amount_cents", rec.Amount.Cents,
		"category", rec.Category)

	return id, nil
}

const recordColumns = `id, title, amount_cents, category, timestamp_ms, notes, image_ref`

func (r *SQLiteRepository) QueryRange(ctx context.Context, start, end time.Time) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE timestamp_ms BETWEEN ? AND ?
		ORDER BY timestamp_ms DESC`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *SQLiteRepository) QueryDuplicate(ctx context.Context, title string, amount core.Money, start, end time.Time) (*core.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE lower(trim(title)) = lower(?) AND amount_cents = ?
		AND timestamp_ms BETWEEN ? AND ?
		LIMIT 1`,
		strings.TrimSpace(title), amount.Cents, start.UnixMilli(), end.UnixMilli())

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query duplicate: %w", err)
	}
	return &rec, nil
}

func (r *SQLiteRepository) SumRange(ctx context.Context, start, end time.Time) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT IFNULL(SUM(amount_cents), 0)
		FROM records
		WHERE timestamp_ms BETWEEN ? AND ?`,
		start.UnixMilli(), end.UnixMilli()).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum range: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// DailyTotals groups by calendar day in the repository's configured
// location. Grouping runs in Go over the indexed range scan because
// SQLite's localtime modifier cannot honor an injected timezone.
func (r *SQLiteRepository) DailyTotals(ctx context.Context, start, end time.Time) ([]core.DailyTotal, error) {
	records, err := r.QueryRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	return report.GroupDaily(records, r.loc), nil
}

func (r *SQLiteRepository) CategoryTotals(ctx context.Context, start, end time.Time) ([]core.CategoryTotal, error) {
	// Ties resolve to the earliest-seen category, the SQL analogue of
	// first-encountered order.
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents) AS total
		FROM records
		WHERE timestamp_ms BETWEEN ? AND ?
		GROUP BY category
		ORDER BY total DESC, MIN(timestamp_ms) ASC`,
		start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// GetRecord retrieves a single record by id, for the sync worker.
func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (core.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return core.Record{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return rec, nil
}

// PendingSync lists ids of records not yet exported, oldest first.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM records
		WHERE sync_status = ?
		ORDER BY id ASC
		LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("pending sync: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.Record, error) {
	var rec core.Record
	var cents, tsMillis int64
	if err := row.Scan(&rec.ID, &rec.Title, &cents, &rec.Category, &tsMillis, &rec.Notes, &rec.ImageRef); err != nil {
		return core.Record{}, err
	}
	rec.Amount = core.Money{Cents: cents}
	rec.Timestamp = time.UnixMilli(tsMillis).UTC()
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]core.Record, error) {
	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
