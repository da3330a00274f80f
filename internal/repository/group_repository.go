package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// GroupRepo manages access groups, their memberships and their show
// grants.  The Access Resolver reads the same tables; this repo is the
// admin-facing write side.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo constructs a GroupRepo with the given DB handle.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// List returns all groups ordered by name.
func (r *GroupRepo) List(ctx context.Context) ([]model.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, group_type, description FROM user_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []model.Group{}
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.GroupType, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Get retrieves one group by ID.
func (r *GroupRepo) Get(ctx context.Context, id int64) (*model.Group, error) {
	var g model.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, group_type, description FROM user_groups WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.GroupType, &g.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts a new group and assigns the generated ID back onto g.
func (r *GroupRepo) Create(ctx context.Context, g *model.Group) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_groups (name, group_type, description) VALUES (?, ?, ?)`,
		g.Name, g.GroupType, g.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

// Update rewrites a group's name, type and description.
func (r *GroupRepo) Update(ctx context.Context, g *model.Group) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_groups SET name = ?, group_type = ?, description = ? WHERE id = ?`,
		g.Name, g.GroupType, g.Description, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// Delete removes a group; memberships and show grants cascade.
func (r *GroupRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_groups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// AddMember enrolls a user, ignoring duplicates.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_group_members (user_id, group_id) VALUES (?, ?)
		 ON CONFLICT(user_id, group_id) DO NOTHING`, userID, groupID)
	return err
}

// RemoveMember drops a user's membership.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_group_members WHERE user_id = ? AND group_id = ?`, userID, groupID)
	return err
}

// Members returns the user IDs enrolled in a group.
func (r *GroupRepo) Members(ctx context.Context, groupID int64) ([]int64, error) {
	return r.idList(ctx, `SELECT user_id FROM user_group_members WHERE group_id = ? ORDER BY user_id`, groupID)
}

// GrantShow makes a show visible to a group, ignoring duplicates.
func (r *GroupRepo) GrantShow(ctx context.Context, groupID, showID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO show_group_access (show_id, group_id) VALUES (?, ?)
		 ON CONFLICT(show_id, group_id) DO NOTHING`, showID, groupID)
	return err
}

// RevokeShow withdraws a group's grant on a show.
func (r *GroupRepo) RevokeShow(ctx context.Context, groupID, showID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM show_group_access WHERE show_id = ? AND group_id = ?`, showID, groupID)
	return err
}

// Grants returns the show IDs granted to a group.
func (r *GroupRepo) Grants(ctx context.Context, groupID int64) ([]int64, error) {
	return r.idList(ctx, `SELECT show_id FROM show_group_access WHERE group_id = ? ORDER BY show_id`, groupID)
}

func (r *GroupRepo) idList(ctx context.Context, q string, arg any) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
