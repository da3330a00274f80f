package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

// stalePresence inserts a presence row with an aged last_seen directly,
// since Touch always stamps the current time.
func stalePresence(t *testing.T, db *sql.DB, userID, showID int64, age time.Duration) {
	t.Helper()
	if _, err := db.Exec(
		`INSERT INTO active_sessions (user_id, show_id, tab, focused_field, last_seen)
		 VALUES (?, ?, 'advance', '', ?)
		 ON CONFLICT(user_id, show_id) DO UPDATE SET last_seen = excluded.last_seen`,
		userID, showID, dbTime(time.Now().UTC().Add(-age))); err != nil {
		t.Fatalf("insert stale presence: %v", err)
	}
}

func TestPresenceTouchAndOthers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	bob := seedUser(t, db, "bob", "Bob Stage", "user")
	showID := seedShow(t, db, "The National", alice)
	presence := NewPresenceRepo(db)

	if err := presence.Touch(ctx, alice, showID, "advance", "wifi_password"); err != nil {
		t.Fatalf("touch alice: %v", err)
	}
	if err := presence.Touch(ctx, bob, showID, "schedule", ""); err != nil {
		t.Fatalf("touch bob: %v", err)
	}

	others, err := presence.OthersActive(ctx, alice, showID)
	if err != nil {
		t.Fatalf("others: %v", err)
	}
	if len(others) != 1 {
		t.Fatalf("others = %d, want just bob", len(others))
	}
	got := others[0]
	if got.UserID != bob || got.DisplayName != "Bob Stage" || got.Initials != "BS" {
		t.Errorf("other = %+v", got)
	}
	if got.Tab != "schedule" {
		t.Errorf("tab = %q, want schedule", got.Tab)
	}

	// Bob's view excludes himself and shows alice's focused field.
	others, err = presence.OthersActive(ctx, bob, showID)
	if err != nil {
		t.Fatalf("others: %v", err)
	}
	if len(others) != 1 || others[0].UserID != alice || others[0].FocusedField != "wifi_password" {
		t.Errorf("bob's view = %+v", others)
	}
}

func TestPresenceTouchIsUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", alice)
	presence := NewPresenceRepo(db)

	for i := 0; i < 3; i++ {
		if err := presence.Touch(ctx, alice, showID, "advance", ""); err != nil {
			t.Fatalf("touch %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM active_sessions WHERE user_id = ? AND show_id = ?`,
		alice, showID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("presence rows = %d, want 1", n)
	}
}

func TestPresenceStaleRowsInvisible(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	bob := seedUser(t, db, "bob", "Bob Stage", "user")
	showID := seedShow(t, db, "The National", alice)
	presence := NewPresenceRepo(db)

	// Bob was last seen 50s ago: outside the visible window but not yet
	// expired.
	stalePresence(t, db, bob, showID, 50*time.Second)

	others, err := presence.OthersActive(ctx, alice, showID)
	if err != nil {
		t.Fatalf("others: %v", err)
	}
	if len(others) != 0 {
		t.Errorf("stale row visible: %+v", others)
	}
}

func TestPresenceTouchExpiresOldRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	bob := seedUser(t, db, "bob", "Bob Stage", "user")
	showA := seedShow(t, db, "Show A", alice)
	showB := seedShow(t, db, "Show B", alice)
	presence := NewPresenceRepo(db)

	// Expired row on a different show: the cleanup is system-wide.
	stalePresence(t, db, bob, showB, 2*time.Minute)

	if err := presence.Touch(ctx, alice, showA, "advance", ""); err != nil {
		t.Fatalf("touch: %v", err)
	}
	var n int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM active_sessions WHERE user_id = ?`, bob).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("expired row survived touch cleanup")
	}
}

func TestPresenceLeave(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	bob := seedUser(t, db, "bob", "Bob Stage", "user")
	showID := seedShow(t, db, "The National", alice)
	presence := NewPresenceRepo(db)

	if err := presence.Touch(ctx, bob, showID, "advance", ""); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := presence.Leave(ctx, bob, showID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	others, err := presence.OthersActive(ctx, alice, showID)
	if err != nil {
		t.Fatalf("others: %v", err)
	}
	if len(others) != 0 {
		t.Errorf("presence remains after leave: %+v", others)
	}
}
