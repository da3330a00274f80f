package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// AttachmentRepo manages files stored against shows.  Blobs live in the
// same SQLite file as everything else; attachments at this venue are
// riders and stage plots, not media libraries.
type AttachmentRepo struct {
	db *sql.DB
}

// NewAttachmentRepo constructs an AttachmentRepo with the given DB handle.
func NewAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

// Create stores a new attachment and assigns the generated ID back onto a.
func (r *AttachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO show_attachments (show_id, uploaded_by, filename, mime_type, file_data, file_size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ShowID, a.UploadedBy, a.Filename, a.MimeType, a.Data, len(a.Data))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	a.FileSize = int64(len(a.Data))
	return nil
}

// ListByShow returns attachment metadata for a show, newest first.  File
// bodies are excluded; use Get for downloads.
func (r *AttachmentRepo) ListByShow(ctx context.Context, showID int64) ([]model.Attachment, error) {
	const q = `SELECT id, show_id, COALESCE(uploaded_by, 0), filename, mime_type, file_size, created_at
	           FROM show_attachments WHERE show_id = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Attachment{}
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.ShowID, &a.UploadedBy, &a.Filename, &a.MimeType, &a.FileSize, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Get retrieves one attachment including its file body.
func (r *AttachmentRepo) Get(ctx context.Context, id int64) (*model.Attachment, error) {
	const q = `SELECT id, show_id, COALESCE(uploaded_by, 0), filename, mime_type, file_size, created_at, file_data
	           FROM show_attachments WHERE id = ?`
	var a model.Attachment
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.ShowID, &a.UploadedBy, &a.Filename, &a.MimeType, &a.FileSize, &a.CreatedAt, &a.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete removes an attachment.
func (r *AttachmentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM show_attachments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
