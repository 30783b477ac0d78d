package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fxdesk/internal/store"
)

var _ store.Store = (*PostgresSnapshotStore)(nil)

// PostgresSnapshotStore is a store.Store backed by PostgreSQL.
//
// Snapshots live in rate_snapshots keyed by (slot, base); generation_pointer holds the
// single row naming the slot that carries the newer generation. The other two slots
// carry the older generation and the staged one.
type PostgresSnapshotStore struct {
	db *sql.DB
}

// NewPostgresSnapshotStore creates a new PostgresSnapshotStore.
func NewPostgresSnapshotStore(db *sql.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func newerSlot(ctx context.Context, q queryRower, lock bool) (store.Slot, error) {
	query := `SELECT newer_slot FROM generation_pointer WHERE id`
	if lock {
		query += ` FOR UPDATE`
	}
	var v string
	err := q.QueryRowContext(ctx, query).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return store.SlotA, nil
	}
	if err != nil {
		return "", fmt.Errorf("read generation pointer: %w", err)
	}
	slot := store.Slot(strings.TrimSpace(v))
	if !slot.Valid() {
		return "", fmt.Errorf("generation pointer holds unknown slot %q", v)
	}
	return slot, nil
}

func (r *PostgresSnapshotStore) resolve(ctx context.Context, gen store.Generation) (store.Slot, error) {
	newer, err := newerSlot(ctx, r.db, false)
	if err != nil {
		return "", err
	}
	return store.SlotFor(newer, gen)
}

// ReadSnapshot returns the stored document for base in gen.
func (r *PostgresSnapshotStore) ReadSnapshot(ctx context.Context, gen store.Generation, base string) ([]byte, error) {
	slot, err := r.resolve(ctx, gen)
	if err != nil {
		return nil, err
	}

	var doc []byte
	err = r.db.QueryRowContext(ctx,
		`SELECT doc::text FROM rate_snapshots WHERE slot = $1 AND base = $2`,
		string(slot), strings.ToUpper(base)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s/%s: %w", gen, base, err)
	}
	return doc, nil
}

// WriteSnapshot replaces the document for base in gen.
func (r *PostgresSnapshotStore) WriteSnapshot(ctx context.Context, gen store.Generation, base string, doc []byte) error {
	slot, err := r.resolve(ctx, gen)
	if err != nil {
		return err
	}

	query := `INSERT INTO rate_snapshots (slot, base, doc, written_at)
              VALUES ($1, $2, $3::json, NOW())
              ON CONFLICT (slot, base)
              DO UPDATE SET doc = EXCLUDED.doc, written_at = EXCLUDED.written_at`
	if _, err := r.db.ExecContext(ctx, query, string(slot), strings.ToUpper(base), string(doc)); err != nil {
		return fmt.Errorf("write snapshot %s/%s: %w", gen, base, err)
	}
	return nil
}

// ClearStaging deletes the rows of the staging slot.
func (r *PostgresSnapshotStore) ClearStaging(ctx context.Context) error {
	slot, err := r.resolve(ctx, store.Staging)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rate_snapshots WHERE slot = $1`, string(slot)); err != nil {
		return fmt.Errorf("clear slot %s: %w", slot, err)
	}
	return nil
}

// Rotate points the generation pointer at the staging slot and deletes the older
// slot's rows in one transaction.
func (r *PostgresSnapshotStore) Rotate(ctx context.Context) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rotation: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	newer, err := newerSlot(ctx, tx, true)
	if err != nil {
		return err
	}
	staging := newer.Next()

	var n int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_snapshots WHERE slot = $1`, string(staging)).Scan(&n); err != nil {
		return fmt.Errorf("count snapshots in slot %s: %w", staging, err)
	}
	if n == 0 {
		return tx.Commit()
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO generation_pointer (id, newer_slot, rotated_at) VALUES (TRUE, $1, NOW())
         ON CONFLICT (id) DO UPDATE SET newer_slot = EXCLUDED.newer_slot, rotated_at = EXCLUDED.rotated_at`,
		string(staging)); err != nil {
		return fmt.Errorf("flip generation pointer: %w", err)
	}
	discarded := newer.Prev()
	if _, err = tx.ExecContext(ctx, `DELETE FROM rate_snapshots WHERE slot = $1`, string(discarded)); err != nil {
		return fmt.Errorf("clear slot %s: %w", discarded, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit rotation: %w", err)
	}
	return nil
}

// ReadComparison returns the comparison document.
func (r *PostgresSnapshotStore) ReadComparison(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc::text FROM comparison_result WHERE id`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read comparison: %w", err)
	}
	return doc, nil
}

// WriteComparison replaces the comparison document.
func (r *PostgresSnapshotStore) WriteComparison(ctx context.Context, doc []byte) error {
	query := `INSERT INTO comparison_result (id, doc, computed_at) VALUES (TRUE, $1::json, NOW())
              ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, computed_at = EXCLUDED.computed_at`
	if _, err := r.db.ExecContext(ctx, query, string(doc)); err != nil {
		return fmt.Errorf("write comparison: %w", err)
	}
	return nil
}
