package repository

import (
	"context"
	"database/sql"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// CommentRepo manages per-show discussion comments.
type CommentRepo struct {
	db *sql.DB
}

// NewCommentRepo constructs a CommentRepo with the given DB handle.
func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// ListByShow returns a show's comments oldest first, annotated with
// author display names.
func (r *CommentRepo) ListByShow(ctx context.Context, showID int64) ([]model.Comment, error) {
	const q = `SELECT c.id, c.show_id, c.user_id, COALESCE(u.display_name, u.username, ''), c.body, c.created_at
	           FROM show_comments c LEFT JOIN users u ON c.user_id = u.id
	           WHERE c.show_id = ?
	           ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.ShowID, &c.UserID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create appends a comment and assigns the generated ID back onto c.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	now := dbNow()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO show_comments (show_id, user_id, body, created_at) VALUES (?, ?, ?, ?)`,
		c.ShowID, c.UserID, c.Body, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = now
	return nil
}

// Delete removes a comment by ID within a show; the show check prevents
// deleting through a guessed ID on another show.
func (r *CommentRepo) Delete(ctx context.Context, showID, commentID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM show_comments WHERE id = ? AND show_id = ?`, commentID, showID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
