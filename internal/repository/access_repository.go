// Access resolution.  The resolver computes, per user,
// which shows are visible and whether the user is write-restricted.  The
// queries are pure and run fresh on every check; nothing here is cached,
// so group changes by an admin take effect on the affected user's very
// next request.

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// ShowSet is the result of a visibility computation: either every show
// (All) or an explicit, possibly empty, set of show IDs.
type ShowSet struct {
	All bool
	IDs map[int64]struct{}
}

// Contains reports whether the set grants visibility into showID.
func (s ShowSet) Contains(showID int64) bool {
	if s.All {
		return true
	}
	_, ok := s.IDs[showID]
	return ok
}

// AccessRepo resolves show visibility and read-only status from the
// user's role, group memberships and show grants.
type AccessRepo struct {
	db *sql.DB
}

// NewAccessRepo constructs an AccessRepo with the given DB handle.
func NewAccessRepo(db *sql.DB) *AccessRepo {
	return &AccessRepo{db: db}
}

// AccessibleShows computes the caller's visible shows.  Admins, users with
// no groups at all, and users with any all_access or admin_group
// membership see everything; everyone else sees the union of grants
// across their restricted groups, which may be empty.
func (r *AccessRepo) AccessibleShows(ctx context.Context, userID int64) (ShowSet, error) {
	role, err := r.userRole(ctx, userID)
	if err != nil {
		return ShowSet{}, err
	}
	if role == model.RoleAdmin {
		return ShowSet{All: true}, nil
	}

	types, err := r.groupTypes(ctx, userID)
	if err != nil {
		return ShowSet{}, err
	}
	if len(types) == 0 {
		return ShowSet{All: true}, nil
	}
	for _, t := range types {
		if t == model.GroupTypeAllAccess || t == model.GroupTypeAdminGroup {
			return ShowSet{All: true}, nil
		}
	}

	// Every group is restricted: visibility is the union of show grants
	// across all of the user's groups.
	const q = `SELECT DISTINCT sga.show_id
	           FROM show_group_access sga
	           JOIN user_group_members m ON m.group_id = sga.group_id
	           WHERE m.user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return ShowSet{}, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return ShowSet{}, err
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return ShowSet{}, err
	}
	return ShowSet{IDs: ids}, nil
}

// CanAccess reports whether the user may see the given show.
func (r *AccessRepo) CanAccess(ctx context.Context, userID, showID int64) (bool, error) {
	set, err := r.AccessibleShows(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Contains(showID), nil
}

// IsReadOnly reports whether the user is write-restricted: true iff the
// user has at least one group and every one of them is restricted.
// Admins are never read-only.
func (r *AccessRepo) IsReadOnly(ctx context.Context, userID int64) (bool, error) {
	role, err := r.userRole(ctx, userID)
	if err != nil {
		return false, err
	}
	if role == model.RoleAdmin {
		return false, nil
	}
	types, err := r.groupTypes(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(types) == 0 {
		return false, nil
	}
	for _, t := range types {
		if t != model.GroupTypeRestricted {
			return false, nil
		}
	}
	return true, nil
}

func (r *AccessRepo) userRole(ctx context.Context, userID int64) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return role, nil
}

func (r *AccessRepo) groupTypes(ctx context.Context, userID int64) ([]string, error) {
	const q = `SELECT g.group_type
	           FROM user_groups g
	           JOIN user_group_members m ON m.group_id = g.id
	           WHERE m.user_id = ?`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
