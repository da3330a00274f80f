package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ShowSysDan/ShowAdvance/internal/database"
	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

// openTestDB opens a fresh migrated database in a per-test temp dir.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedUser inserts a user directly and returns its ID.
func seedUser(t *testing.T, db *sql.DB, username, displayName, role string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (username, password_hash, display_name, role) VALUES (?, 'x', ?, ?)`,
		username, displayName, role)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return id
}

// seedShow creates a show through the repository, as the app would.
func seedShow(t *testing.T, db *sql.DB, name string, createdBy int64) int64 {
	t.Helper()
	s := &model.Show{Name: name, ShowDate: "2026-10-01", Venue: "Judson's Live"}
	if err := NewShowRepo(db).Create(context.Background(), s, createdBy); err != nil {
		t.Fatalf("seed show %s: %v", name, err)
	}
	return s.ID
}

// seedGroup inserts a group directly and returns its ID.
func seedGroup(t *testing.T, db *sql.DB, name, groupType string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO user_groups (name, group_type) VALUES (?, ?)`, name, groupType)
	if err != nil {
		t.Fatalf("seed group %s: %v", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("seed group %s: %v", name, err)
	}
	return id
}

func addMember(t *testing.T, db *sql.DB, userID, groupID int64) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO user_group_members (user_id, group_id) VALUES (?, ?)`, userID, groupID); err != nil {
		t.Fatalf("add member: %v", err)
	}
}

func grantShow(t *testing.T, db *sql.DB, groupID, showID int64) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO show_group_access (show_id, group_id) VALUES (?, ?)`, showID, groupID); err != nil {
		t.Fatalf("grant show: %v", err)
	}
}
