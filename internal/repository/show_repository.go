// Show persistence.  A Show owns all advance
// paperwork; deleting one cascades to every dependent row.  Lifecycle:
// created active, auto-archived once its date is in the past, restored to
// active only by explicit request, deleted only by explicit admin action.

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// ShowListing is a show annotated with its creator's display name for
// dashboard views.
type ShowListing struct {
	model.Show
	Creator string `json:"creator"`
}

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

const showColumns = `id, name, COALESCE(show_date, ''), show_time, venue, status,
	advance_version, schedule_version, COALESCE(created_by, 0), created_at, updated_at,
	COALESCE(last_saved_by, 0), COALESCE(last_saved_at, '')`

func scanShow(row interface{ Scan(...any) error }, s *model.Show) error {
	return row.Scan(&s.ID, &s.Name, &s.ShowDate, &s.ShowTime, &s.Venue, &s.Status,
		&s.AdvanceVersion, &s.ScheduleVersion, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
		&s.LastSavedBy, &s.LastSavedAt)
}

// Create inserts a new show and pre-populates the advance form's core
// fields (show_name, show_date, show_time, venue) so the intake sheet
// opens with the basics already filled in.  Both writes share one
// transaction.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show, createdBy int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := dbNow()
	var date any
	if s.ShowDate != "" {
		date = s.ShowDate
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO shows (name, show_date, show_time, venue, status, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, date, s.ShowTime, s.Venue, model.ShowStatusActive, createdBy, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	s.Status = model.ShowStatusActive
	s.CreatedBy = createdBy
	s.CreatedAt, s.UpdatedAt = now, now

	seed := []struct{ key, val string }{
		{"show_name", s.Name},
		{"show_date", s.ShowDate},
		{"show_time", s.ShowTime},
		{"venue", s.Venue},
	}
	for _, f := range seed {
		if f.val == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO advance_data (show_id, field_key, field_value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(show_id, field_key) DO UPDATE SET field_value = excluded.field_value, updated_at = excluded.updated_at`,
			id, f.key, f.val, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id int64) (*model.Show, error) {
	var s model.Show
	err := scanShow(r.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

const listingColumns = `s.id, s.name, COALESCE(s.show_date, ''), s.show_time, s.venue, s.status,
	s.advance_version, s.schedule_version, COALESCE(s.created_by, 0), s.created_at, s.updated_at,
	COALESCE(s.last_saved_by, 0), COALESCE(s.last_saved_at, ''),
	COALESCE(u.display_name, u.username, '')`

// ListActive returns active shows visible to the given set, annotated
// with creator display names, soonest date first (undated shows last).
func (r *ShowRepo) ListActive(ctx context.Context, set ShowSet) ([]ShowListing, error) {
	const q = `SELECT ` + listingColumns + `
	           FROM shows s LEFT JOIN users u ON s.created_by = u.id
	           WHERE s.status = 'active'
	           ORDER BY s.show_date IS NULL OR s.show_date = '', s.show_date ASC, s.id ASC`
	return r.listFiltered(ctx, q, set, 0)
}

// ListArchived returns archived shows visible to the given set, newest
// date first, capped at limit (0 means no cap).
func (r *ShowRepo) ListArchived(ctx context.Context, set ShowSet, limit int) ([]ShowListing, error) {
	const q = `SELECT ` + listingColumns + `
	           FROM shows s LEFT JOIN users u ON s.created_by = u.id
	           WHERE s.status = 'archived'
	           ORDER BY s.show_date DESC, s.id DESC`
	return r.listFiltered(ctx, q, set, limit)
}

// listFiltered runs a listing query and applies the visibility set in
// application code.  The venue's show count is small, so filtering after
// the query keeps the SQL free of dynamically built IN clauses.
func (r *ShowRepo) listFiltered(ctx context.Context, q string, set ShowSet, limit int) ([]ShowListing, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []ShowListing{}
	for rows.Next() {
		var l ShowListing
		if err := rows.Scan(&l.ID, &l.Name, &l.ShowDate, &l.ShowTime, &l.Venue, &l.Status,
			&l.AdvanceVersion, &l.ScheduleVersion, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
			&l.LastSavedBy, &l.LastSavedAt, &l.Creator); err != nil {
			return nil, err
		}
		if !set.Contains(l.ID) {
			continue
		}
		result = append(result, l)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, rows.Err()
}

// ArchivePastShows moves active shows whose date has passed into archived
// status.  Called lazily from the dashboard listing rather than a timer.
func (r *ShowRepo) ArchivePastShows(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shows SET status = 'archived'
		 WHERE status = 'active' AND show_date IS NOT NULL AND show_date <> '' AND show_date < ?`,
		dbToday())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetStatus flips a show between active and archived.  Returns
// ErrShowNotFound when no row matched.
func (r *ShowRepo) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE shows SET status = ?, updated_at = ? WHERE id = ?`,
		status, dbNow(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowNotFound
	}
	return nil
}

// Delete permanently removes a show and every dependent row inside one
// transaction.  The schema also cascades, but the deletes are explicit so
// the cleanup does not depend on the foreign_keys pragma being on.
func (r *ShowRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowNotFound
		}
		return err
	}
	for _, tbl := range []string{
		"advance_data", "schedule_rows", "schedule_meta", "post_show_notes",
		"form_history", "active_sessions", "show_comments", "show_attachments",
		"show_group_access",
	} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+tbl+` WHERE show_id = ?`, id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM export_log WHERE show_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// BumpExportVersion increments the per-form export counter and returns
// the new value.  formType must be advance or schedule.
func (r *ShowRepo) BumpExportVersion(ctx context.Context, id int64, formType string) (int, error) {
	col := "advance_version"
	if formType == model.FormTypeSchedule {
		col = "schedule_version"
	}
	res, err := r.db.ExecContext(ctx, `UPDATE shows SET `+col+` = `+col+` + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrShowNotFound
	}
	var v int
	if err := r.db.QueryRowContext(ctx, `SELECT `+col+` FROM shows WHERE id = ?`, id).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}
