package repository

import (
	"context"
	"database/sql"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// ExportRepo records PDF exports.  Rendering itself is an external
// collaborator; this repo only journals who exported which version when.
type ExportRepo struct {
	db *sql.DB
}

// NewExportRepo constructs an ExportRepo with the given DB handle.
func NewExportRepo(db *sql.DB) *ExportRepo {
	return &ExportRepo{db: db}
}

// Log appends one export entry.
func (r *ExportRepo) Log(ctx context.Context, e *model.ExportEntry) error {
	now := dbNow()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO export_log (show_id, export_type, version, exported_by, exported_at, filename)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ShowID, e.ExportType, e.Version, e.ExportedBy, now, e.Filename)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	e.ExportedAt = now
	return nil
}

// ListByShow returns a show's most recent exports, newest first, with
// exporter display names.
func (r *ExportRepo) ListByShow(ctx context.Context, showID int64, limit int) ([]model.ExportEntry, error) {
	const q = `SELECT e.id, COALESCE(e.show_id, 0), e.export_type, e.version,
	                  COALESCE(e.exported_by, 0), COALESCE(u.display_name, u.username, ''),
	                  e.exported_at, e.filename
	           FROM export_log e LEFT JOIN users u ON e.exported_by = u.id
	           WHERE e.show_id = ?
	           ORDER BY e.exported_at DESC, e.id DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, showID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.ExportEntry{}
	for rows.Next() {
		var e model.ExportEntry
		if err := rows.Scan(&e.ID, &e.ShowID, &e.ExportType, &e.Version, &e.ExportedBy, &e.Exporter, &e.ExportedAt, &e.Filename); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
