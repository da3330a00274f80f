// Presence tracking.  One row per active
// (user, show) pair, continuously overwritten on every poll.  Rows are
// shown to others while fresh within presenceVisibleWindow and garbage
// collected lazily on the next touch once older than presenceExpiry;
// there is no sweeper timer; touches arrive every few seconds per active
// client, which is often enough.

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
	"github.com/ShowSysDan/ShowAdvance/internal/utils"
)

const (
	// presenceVisibleWindow is how fresh a row must be to appear in
	// others_active.
	presenceVisibleWindow = 45 * time.Second
	// presenceExpiry is the age past which rows are deleted outright.
	presenceExpiry = 60 * time.Second
)

// PresenceRepo manages the ephemeral active_sessions table.
type PresenceRepo struct {
	db *sql.DB
}

// NewPresenceRepo constructs a PresenceRepo with the given DB handle.
func NewPresenceRepo(db *sql.DB) *PresenceRepo {
	return &PresenceRepo{db: db}
}

// Touch upserts the caller's presence row with the current timestamp,
// then deletes every presence row system-wide whose last_seen has aged
// past the expiry.  Cleanup piggybacks on the touch instead of a timer.
func (r *PresenceRepo) Touch(ctx context.Context, userID, showID int64, tab, focusedField string) error {
	if tab == "" {
		tab = model.FormTypeAdvance
	}
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO active_sessions (user_id, show_id, tab, focused_field, last_seen)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, show_id) DO UPDATE SET
		   tab = excluded.tab, focused_field = excluded.focused_field, last_seen = excluded.last_seen`,
		userID, showID, tab, focusedField, dbTime(now)); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM active_sessions WHERE last_seen < ?`,
		dbTime(now.Add(-presenceExpiry)))
	return err
}

// OthersActive returns the presence rows for a show excluding the caller,
// restricted to rows seen within the visibility window, each annotated
// with the user's display name and computed initials.
func (r *PresenceRepo) OthersActive(ctx context.Context, userID, showID int64) ([]model.ActiveUser, error) {
	const q = `SELECT p.user_id, COALESCE(u.display_name, u.username, ''),
	                  p.tab, COALESCE(p.focused_field, ''), p.last_seen
	           FROM active_sessions p
	           JOIN users u ON u.id = p.user_id
	           WHERE p.show_id = ? AND p.user_id <> ? AND p.last_seen >= ?
	           ORDER BY p.last_seen DESC`
	cutoff := dbTime(time.Now().UTC().Add(-presenceVisibleWindow))
	rows, err := r.db.QueryContext(ctx, q, showID, userID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	active := []model.ActiveUser{}
	for rows.Next() {
		var a model.ActiveUser
		if err := rows.Scan(&a.UserID, &a.DisplayName, &a.Tab, &a.FocusedField, &a.LastSeen); err != nil {
			return nil, err
		}
		a.Initials = utils.Initials(a.DisplayName)
		active = append(active, a)
	}
	return active, rows.Err()
}

// Leave removes the caller's presence row for a show, used when a client
// navigates away cleanly instead of waiting for expiry.
func (r *PresenceRepo) Leave(ctx context.Context, userID, showID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM active_sessions WHERE user_id = ? AND show_id = ?`, userID, showID)
	return err
}
