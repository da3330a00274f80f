package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

func TestHistoryKeepsBoundedJournal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", userID)
	history := NewHistoryRepo(db)
	forms := NewFormRepo(db, history)

	for i := 0; i < historyRetention+5; i++ {
		if err := forms.SaveAdvance(ctx, showID, userID, map[string]string{
			"doors_time": fmt.Sprintf("19:%02d", i%60),
		}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	n, err := history.Count(ctx, showID, model.FormTypeAdvance)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != historyRetention {
		t.Errorf("journal size = %d, want capped at %d", n, historyRetention)
	}

	// The newest snapshot survived the pruning.
	entries, err := history.List(ctx, showID, model.FormTypeAdvance)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	newest, err := history.Get(ctx, entries[0].ID)
	if err != nil {
		t.Fatalf("get newest: %v", err)
	}
	want := fmt.Sprintf(`{"advance_data":{"doors_time":"19:%02d"}}`, (historyRetention+4)%60)
	if newest.Snapshot != want {
		t.Errorf("newest snapshot = %s, want %s", newest.Snapshot, want)
	}
}

func TestHistoryBoundIsPerFormType(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", userID)
	history := NewHistoryRepo(db)
	forms := NewFormRepo(db, history)

	for i := 0; i < historyRetention+3; i++ {
		if err := forms.SaveAdvance(ctx, showID, userID, map[string]string{"k": fmt.Sprint(i)}); err != nil {
			t.Fatalf("advance save %d: %v", i, err)
		}
	}
	if err := forms.SavePostNotes(ctx, showID, userID, map[string]string{"recap": "sold out"}); err != nil {
		t.Fatalf("notes save: %v", err)
	}

	notes, err := history.Count(ctx, showID, model.FormTypePostNotes)
	if err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if notes != 1 {
		t.Errorf("postnotes journal = %d, want 1 (advance pruning must not touch it)", notes)
	}
}

func TestHistoryListNewestFirstWithNames(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	bob := seedUser(t, db, "bob", "Bob Stage", "user")
	showID := seedShow(t, db, "The National", alice)
	history := NewHistoryRepo(db)
	forms := NewFormRepo(db, history)

	if err := forms.SaveAdvance(ctx, showID, alice, map[string]string{"k": "1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := forms.SaveAdvance(ctx, showID, bob, map[string]string{"k": "2"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := history.List(ctx, showID, model.FormTypeAdvance)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].SavedBy != bob || entries[0].SavedByName != "Bob Stage" {
		t.Errorf("newest entry = %+v, want bob's", entries[0])
	}
	if entries[1].SavedBy != alice {
		t.Errorf("oldest entry = %+v, want alice's", entries[1])
	}
}

func TestHistoryGetUnknownEntry(t *testing.T) {
	db := openTestDB(t)
	if _, err := NewHistoryRepo(db).Get(context.Background(), 4242); err != ErrEntryNotFound {
		t.Fatalf("err = %v, want ErrEntryNotFound", err)
	}
}
