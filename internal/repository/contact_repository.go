package repository

import (
	"context"
	"database/sql"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// ContactRepo manages the venue contact directory.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo constructs a ContactRepo with the given DB handle.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// List returns all contacts ordered by department then name.
func (r *ContactRepo) List(ctx context.Context) ([]model.Contact, error) {
	const q = `SELECT id, name, title, department, phone, email, sort_order, created_at
	           FROM contacts ORDER BY department, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Title, &c.Department, &c.Phone, &c.Email, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ByDepartment groups the directory for display, using "Other" for
// contacts without a department.
func (r *ContactRepo) ByDepartment(ctx context.Context) (map[string][]model.Contact, error) {
	contacts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	byDept := map[string][]model.Contact{}
	for _, c := range contacts {
		dept := c.Department
		if dept == "" {
			dept = "Other"
		}
		byDept[dept] = append(byDept[dept], c)
	}
	return byDept, nil
}

// Create inserts a contact and assigns the generated ID back onto c.
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (name, title, department, phone, email) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Title, c.Department, c.Phone, c.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// Update rewrites a contact's fields.
func (r *ContactRepo) Update(ctx context.Context, c *model.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, title = ?, department = ?, phone = ?, email = ? WHERE id = ?`,
		c.Name, c.Title, c.Department, c.Phone, c.Email, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContactNotFound
	}
	return nil
}

// Delete removes a contact.
func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContactNotFound
	}
	return nil
}
