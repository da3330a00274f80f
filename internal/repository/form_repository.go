// The form store.  Field values live as one row per
// (show_id, field_key) with insert-or-update semantics, so at most one
// live value exists per key and concurrent identical-key writes stay safe
// without explicit locks.  Every save runs in a single transaction that
// also stamps the show's last-saved marker and appends a history
// snapshot; a crash mid-save leaves either the old or the fully-new
// state, never a mix.

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// FormRepo persists the three per-show forms (advance, schedule,
// postnotes) and feeds the history journal on every save.
type FormRepo struct {
	db      *sql.DB
	history *HistoryRepo
}

// NewFormRepo constructs a FormRepo writing through the given history
// repository.
func NewFormRepo(db *sql.DB, history *HistoryRepo) *FormRepo {
	return &FormRepo{db: db, history: history}
}

// SchedulePayload is a schedule save as submitted: an optional meta
// key/value set and an optional full replacement of the row list.  Nil
// means "not included in this save".
type SchedulePayload struct {
	Meta map[string]string   `json:"meta,omitempty"`
	Rows []model.ScheduleRow `json:"rows,omitempty"`
}

// advanceSnapshot / notesSnapshot are the wrapped shapes stored in the
// history journal and expected back by RestoreSnapshot.
type advanceSnapshot struct {
	AdvanceData map[string]string `json:"advance_data"`
}

type notesSnapshot struct {
	NotesData map[string]string `json:"notes_data"`
}

// SaveAdvance upserts every submitted advance field, mirrors the core
// keys onto the show's own columns, stamps the last-saved marker and
// records a history snapshot, all in one transaction.
func (r *FormRepo) SaveAdvance(ctx context.Context, showID, userID int64, fields map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := showExistsTx(ctx, tx, showID); err != nil {
		return err
	}
	now := dbNow()
	for key, value := range fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO advance_data (show_id, field_key, field_value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(show_id, field_key) DO UPDATE SET field_value = excluded.field_value, updated_at = excluded.updated_at`,
			showID, key, value, now); err != nil {
			return err
		}
	}

	// Mirror core fields onto the shows row so list views don't need a
	// join-and-pivot over advance_data.
	if name, ok := fields["show_name"]; ok && name != "" {
		if _, err := tx.ExecContext(ctx, `UPDATE shows SET name = ? WHERE id = ?`, name, showID); err != nil {
			return err
		}
	}
	if date, ok := fields["show_date"]; ok {
		var v any
		if date != "" {
			v = date
		}
		if _, err := tx.ExecContext(ctx, `UPDATE shows SET show_date = ? WHERE id = ?`, v, showID); err != nil {
			return err
		}
	}
	if t, ok := fields["show_time"]; ok {
		if _, err := tx.ExecContext(ctx, `UPDATE shows SET show_time = ? WHERE id = ?`, t, showID); err != nil {
			return err
		}
	}
	if venue, ok := fields["venue"]; ok {
		if _, err := tx.ExecContext(ctx, `UPDATE shows SET venue = ? WHERE id = ?`, venue, showID); err != nil {
			return err
		}
	}

	if err := stampSavedTx(ctx, tx, showID, userID, now); err != nil {
		return err
	}
	snap, err := json.Marshal(advanceSnapshot{AdvanceData: nonNil(fields)})
	if err != nil {
		return err
	}
	if err := r.history.RecordTx(ctx, tx, showID, model.FormTypeAdvance, userID, string(snap), now); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveSchedule optionally upserts the meta key/value set and optionally
// replaces the entire ordered row list (delete-all-then-reinsert with
// 0-based sort order).  Row identity is deliberately not preserved
// across saves.
func (r *FormRepo) SaveSchedule(ctx context.Context, showID, userID int64, p SchedulePayload) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := showExistsTx(ctx, tx, showID); err != nil {
		return err
	}
	now := dbNow()
	for key, value := range p.Meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schedule_meta (show_id, field_key, field_value) VALUES (?, ?, ?)
			 ON CONFLICT(show_id, field_key) DO UPDATE SET field_value = excluded.field_value`,
			showID, key, value); err != nil {
			return err
		}
	}
	if p.Rows != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_rows WHERE show_id = ?`, showID); err != nil {
			return err
		}
		for i, row := range p.Rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schedule_rows (show_id, sort_order, start_time, end_time, description, notes)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				showID, i, row.StartTime, row.EndTime, row.Description, row.Notes); err != nil {
				return err
			}
		}
	}

	if err := stampSavedTx(ctx, tx, showID, userID, now); err != nil {
		return err
	}
	snap, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := r.history.RecordTx(ctx, tx, showID, model.FormTypeSchedule, userID, string(snap), now); err != nil {
		return err
	}
	return tx.Commit()
}

// SavePostNotes upserts every submitted post-show note field, stamps the
// show and records a history snapshot in one transaction.
func (r *FormRepo) SavePostNotes(ctx context.Context, showID, userID int64, fields map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := showExistsTx(ctx, tx, showID); err != nil {
		return err
	}
	now := dbNow()
	for key, value := range fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_show_notes (show_id, field_key, field_value) VALUES (?, ?, ?)
			 ON CONFLICT(show_id, field_key) DO UPDATE SET field_value = excluded.field_value`,
			showID, key, value); err != nil {
			return err
		}
	}
	if err := stampSavedTx(ctx, tx, showID, userID, now); err != nil {
		return err
	}
	snap, err := json.Marshal(notesSnapshot{NotesData: nonNil(fields)})
	if err != nil {
		return err
	}
	if err := r.history.RecordTx(ctx, tx, showID, model.FormTypePostNotes, userID, string(snap), now); err != nil {
		return err
	}
	return tx.Commit()
}

// RestoreSnapshot replays a history entry's payload through the same
// write path as a live save, dispatching on the stored form type.  The
// replay itself snapshots the restored state attributed to the restoring
// user, so the journal records that a rollback occurred.
func (r *FormRepo) RestoreSnapshot(ctx context.Context, entry *model.HistoryEntry, userID int64) error {
	switch entry.FormType {
	case model.FormTypeAdvance:
		var snap advanceSnapshot
		if err := json.Unmarshal([]byte(entry.Snapshot), &snap); err != nil {
			return fmt.Errorf("decode advance snapshot %d: %w", entry.ID, err)
		}
		return r.SaveAdvance(ctx, entry.ShowID, userID, nonNil(snap.AdvanceData))
	case model.FormTypeSchedule:
		var p SchedulePayload
		if err := json.Unmarshal([]byte(entry.Snapshot), &p); err != nil {
			return fmt.Errorf("decode schedule snapshot %d: %w", entry.ID, err)
		}
		return r.SaveSchedule(ctx, entry.ShowID, userID, p)
	case model.FormTypePostNotes:
		var snap notesSnapshot
		if err := json.Unmarshal([]byte(entry.Snapshot), &snap); err != nil {
			return fmt.Errorf("decode postnotes snapshot %d: %w", entry.ID, err)
		}
		return r.SavePostNotes(ctx, entry.ShowID, userID, nonNil(snap.NotesData))
	}
	return fmt.Errorf("unknown form type %q in history entry %d", entry.FormType, entry.ID)
}

// AdvanceData returns all advance field values for a show.
func (r *FormRepo) AdvanceData(ctx context.Context, showID int64) (map[string]string, error) {
	return r.fieldMap(ctx, "advance_data", showID)
}

// ScheduleMeta returns the schedule metadata key/value set for a show.
func (r *FormRepo) ScheduleMeta(ctx context.Context, showID int64) (map[string]string, error) {
	return r.fieldMap(ctx, "schedule_meta", showID)
}

// PostNotes returns the post-show note values for a show.
func (r *FormRepo) PostNotes(ctx context.Context, showID int64) (map[string]string, error) {
	return r.fieldMap(ctx, "post_show_notes", showID)
}

// ScheduleRows returns the ordered production timeline for a show.
func (r *FormRepo) ScheduleRows(ctx context.Context, showID int64) ([]model.ScheduleRow, error) {
	const q = `SELECT id, show_id, sort_order, start_time, end_time, description, notes
	           FROM schedule_rows WHERE show_id = ?
	           ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.ScheduleRow{}
	for rows.Next() {
		var row model.ScheduleRow
		if err := rows.Scan(&row.ID, &row.ShowID, &row.SortOrder, &row.StartTime, &row.EndTime, &row.Description, &row.Notes); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ChangedAdvanceFields returns the advance fields updated strictly after
// the given cursor.  When the show's last save came from excludeUser the
// delta is empty: a user never sees their own just-submitted edits echoed
// back as changed by someone else.
func (r *FormRepo) ChangedAdvanceFields(ctx context.Context, showID int64, since string, excludeUser int64) (map[string]string, error) {
	const q = `SELECT a.field_key, a.field_value
	           FROM advance_data a
	           JOIN shows s ON s.id = a.show_id
	           WHERE a.show_id = ? AND a.updated_at > ?
	             AND COALESCE(s.last_saved_by, 0) <> ?`
	rows, err := r.db.QueryContext(ctx, q, showID, since, excludeUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		fields[k] = v
	}
	return fields, rows.Err()
}

// AdvanceCursor returns the maximum updated_at across a show's advance
// fields: the monotonically non-decreasing cursor handed back to polling
// clients as their next "since".
func (r *FormRepo) AdvanceCursor(ctx context.Context, showID int64) (string, error) {
	var cursor string
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(updated_at), '') FROM advance_data WHERE show_id = ?`,
		showID).Scan(&cursor)
	return cursor, err
}

func (r *FormRepo) fieldMap(ctx context.Context, table string, showID int64) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT field_key, field_value FROM `+table+` WHERE show_id = ?`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, rows.Err()
}

func showExistsTx(ctx context.Context, tx *sql.Tx, showID int64) error {
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, showID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	return nil
}

func stampSavedTx(ctx context.Context, tx *sql.Tx, showID, userID int64, now string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE shows SET last_saved_by = ?, last_saved_at = ?, updated_at = ? WHERE id = ?`,
		userID, now, now, showID)
	return err
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
