// The append-only snapshot journal.  Every save
// records the full payload as submitted; each record is immediately
// followed by a prune that keeps only the newest historyRetention entries
// per (show, form_type), so the table stays bounded without a maintenance
// job.

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// historyRetention is the maximum number of snapshots kept per
// (show_id, form_type).
const historyRetention = 50

// HistoryRepo manages persistence for form history snapshots.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo constructs a HistoryRepo with the given DB handle.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// RecordTx appends a snapshot inside the caller's transaction and prunes
// everything beyond the retention bound, oldest first.  The snapshot is
// the JSON payload exactly as submitted, wrapped per form type.
func (r *HistoryRepo) RecordTx(ctx context.Context, tx *sql.Tx, showID int64, formType string, savedBy int64, snapshot string, savedAt string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO form_history (show_id, form_type, saved_by, saved_at, snapshot_json)
		 VALUES (?, ?, ?, ?, ?)`,
		showID, formType, savedBy, savedAt, snapshot); err != nil {
		return err
	}
	// Keep the newest entries by saved_at; id breaks ties between saves
	// that land on the same millisecond.
	_, err := tx.ExecContext(ctx,
		`DELETE FROM form_history
		 WHERE show_id = ? AND form_type = ?
		   AND id NOT IN (
		     SELECT id FROM form_history
		     WHERE show_id = ? AND form_type = ?
		     ORDER BY saved_at DESC, id DESC
		     LIMIT ?)`,
		showID, formType, showID, formType, historyRetention)
	return err
}

// List returns the retained snapshots for a (show, form_type), newest
// first, annotated with the saver's display name.  Snapshot bodies are
// omitted; fetch them individually with Get.
func (r *HistoryRepo) List(ctx context.Context, showID int64, formType string) ([]model.HistoryEntry, error) {
	const q = `SELECT h.id, h.show_id, h.form_type, COALESCE(h.saved_by, 0),
	                  COALESCE(u.display_name, u.username, ''), h.saved_at
	           FROM form_history h LEFT JOIN users u ON h.saved_by = u.id
	           WHERE h.show_id = ? AND h.form_type = ?
	           ORDER BY h.saved_at DESC, h.id DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, showID, formType, historyRetention)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ShowID, &e.FormType, &e.SavedBy, &e.SavedByName, &e.SavedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get retrieves one history entry including its snapshot body.  Returns
// ErrEntryNotFound when no row matches.
func (r *HistoryRepo) Get(ctx context.Context, entryID int64) (*model.HistoryEntry, error) {
	const q = `SELECT h.id, h.show_id, h.form_type, COALESCE(h.saved_by, 0),
	                  COALESCE(u.display_name, u.username, ''), h.saved_at, h.snapshot_json
	           FROM form_history h LEFT JOIN users u ON h.saved_by = u.id
	           WHERE h.id = ?`
	var e model.HistoryEntry
	err := r.db.QueryRowContext(ctx, q, entryID).Scan(
		&e.ID, &e.ShowID, &e.FormType, &e.SavedBy, &e.SavedByName, &e.SavedAt, &e.Snapshot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Count returns the number of retained snapshots for a (show, form_type).
func (r *HistoryRepo) Count(ctx context.Context, showID int64, formType string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM form_history WHERE show_id = ? AND form_type = ?`,
		showID, formType).Scan(&n)
	return n, err
}
