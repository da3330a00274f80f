package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

func TestSaveAdvanceUpsertsFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", userID)
	forms := NewFormRepo(db, NewHistoryRepo(db))

	if err := forms.SaveAdvance(ctx, showID, userID, map[string]string{
		"wifi_password": "backstage1",
		"doors_time":    "19:00",
	}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := forms.SaveAdvance(ctx, showID, userID, map[string]string{
		"wifi_password": "backstage2",
	}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	data, err := forms.AdvanceData(ctx, showID)
	if err != nil {
		t.Fatalf("read advance data: %v", err)
	}
	if data["wifi_password"] != "backstage2" {
		t.Errorf("wifi_password = %q, want backstage2", data["wifi_password"])
	}
	if data["doors_time"] != "19:00" {
		t.Errorf("doors_time = %q, want untouched 19:00", data["doors_time"])
	}

	// One row per key no matter how many times it is saved.
	var n int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM advance_data WHERE show_id = ? AND field_key = 'wifi_password'`,
		showID).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Errorf("wifi_password rows = %d, want 1", n)
	}
}

func TestSaveAdvanceMirrorsShowColumns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "Working Title", userID)
	forms := NewFormRepo(db, NewHistoryRepo(db))
	shows := NewShowRepo(db)

	if err := forms.SaveAdvance(ctx, showID, userID, map[string]string{
		"show_name": "The National",
		"show_date": "2026-11-12",
		"show_time": "20:00",
		"venue":     "Main Room",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := shows.GetByID(ctx, showID)
	if err != nil {
		t.Fatalf("get show: %v", err)
	}
	if s.Name != "The National" || s.ShowDate != "2026-11-12" || s.ShowTime != "20:00" || s.Venue != "Main Room" {
		t.Errorf("show columns not mirrored: %+v", s)
	}
	if s.LastSavedBy != userID {
		t.Errorf("last_saved_by = %d, want %d", s.LastSavedBy, userID)
	}
	if s.LastSavedAt == "" {
		t.Error("last_saved_at not stamped")
	}
}

func TestSaveAdvanceEmptyNameDoesNotClobberShow(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", userID)
	forms := NewFormRepo(db, NewHistoryRepo(db))

	if err := forms.SaveAdvance(ctx, showID, userID, map[string]string{"show_name": ""}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s, err := NewShowRepo(db).GetByID(ctx, showID)
	if err != nil {
		t.Fatalf("get show: %v", err)
	}
	if s.Name != "The National" {
		t.Errorf("show name = %q, want The National preserved", s.Name)
	}
}

func TestSaveAdvanceUnknownShow(t *testing.T) {
	db := openTestDB(t)
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	forms := NewFormRepo(db, NewHistoryRepo(db))

	err := forms.SaveAdvance(context.Background(), 9999, userID, map[string]string{"k": "v"})
	if err != ErrShowNotFound {
		t.Fatalf("err = %v, want ErrShowNotFound", err)
	}
}

func TestChangedAdvanceFieldsExcludesOwnSave(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", alice)
	forms := NewFormRepo(db, NewHistoryRepo(db))

	cursor, err := forms.AdvanceCursor(ctx, showID)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := forms.SaveAdvance(ctx, showID, alice, map[string]string{"doors_time": "19:00"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Alice polls after her own save: the show's last save is hers, so
	// nothing comes back even though updated_at moved past her cursor.
	fields, err := forms.ChangedAdvanceFields(ctx, showID, cursor, alice)
	if err != nil {
		t.Fatalf("changed fields: %v", err)
	}
	if len(fields) != 0 {
		t.Errorf("own save echoed back: %v", fields)
	}
}

func TestChangedAdvanceFieldsSeenByOtherUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	bob := seedUser(t, db, "bob", "Bob Stage", "user")
	showID := seedShow(t, db, "The National", alice)
	forms := NewFormRepo(db, NewHistoryRepo(db))

	cursor, err := forms.AdvanceCursor(ctx, showID)
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := forms.SaveAdvance(ctx, showID, alice, map[string]string{"doors_time": "19:30"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	fields, err := forms.ChangedAdvanceFields(ctx, showID, cursor, bob)
	if err != nil {
		t.Fatalf("changed fields: %v", err)
	}
	if fields["doors_time"] != "19:30" {
		t.Errorf("bob's delta = %v, want doors_time 19:30", fields)
	}

	next, err := forms.AdvanceCursor(ctx, showID)
	if err != nil {
		t.Fatalf("next cursor: %v", err)
	}
	if !(next > cursor) {
		t.Errorf("cursor did not advance: %q -> %q", cursor, next)
	}

	// Polling again from the new cursor yields nothing.
	fields, err = forms.ChangedAdvanceFields(ctx, showID, next, bob)
	if err != nil {
		t.Fatalf("changed fields: %v", err)
	}
	if len(fields) != 0 {
		t.Errorf("delta past cursor = %v, want empty", fields)
	}
}

func TestSaveScheduleReplacesRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", userID)
	forms := NewFormRepo(db, NewHistoryRepo(db))

	first := SchedulePayload{
		Meta: map[string]string{"day_of_contact": "Alice"},
		Rows: []model.ScheduleRow{
			{StartTime: "14:00", Description: "Load in"},
			{StartTime: "16:00", Description: "Soundcheck"},
			{StartTime: "19:00", Description: "Doors"},
		},
	}
	if err := forms.SaveSchedule(ctx, showID, userID, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := SchedulePayload{
		Rows: []model.ScheduleRow{
			{StartTime: "15:00", Description: "Load in"},
			{StartTime: "20:00", Description: "Doors"},
		},
	}
	if err := forms.SaveSchedule(ctx, showID, userID, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	rows, err := forms.ScheduleRows(ctx, showID)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want full replacement to 2", len(rows))
	}
	for i, row := range rows {
		if row.SortOrder != i {
			t.Errorf("row %d sort_order = %d", i, row.SortOrder)
		}
	}
	if rows[0].StartTime != "15:00" || rows[1].StartTime != "20:00" {
		t.Errorf("unexpected rows after replacement: %+v", rows)
	}

	// Meta was absent from the second save and must survive.
	meta, err := forms.ScheduleMeta(ctx, showID)
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	if meta["day_of_contact"] != "Alice" {
		t.Errorf("meta lost on row-only save: %v", meta)
	}
}

func TestSaveScheduleNilRowsKeepsExisting(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", userID)
	forms := NewFormRepo(db, NewHistoryRepo(db))

	if err := forms.SaveSchedule(ctx, showID, userID, SchedulePayload{
		Rows: []model.ScheduleRow{{StartTime: "14:00", Description: "Load in"}},
	}); err != nil {
		t.Fatalf("row save: %v", err)
	}
	if err := forms.SaveSchedule(ctx, showID, userID, SchedulePayload{
		Meta: map[string]string{"runner": "Bob"},
	}); err != nil {
		t.Fatalf("meta-only save: %v", err)
	}

	rows, err := forms.ScheduleRows(ctx, showID)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("meta-only save wiped rows: %d left", len(rows))
	}
}

func TestRestoreSnapshotReplaysThroughSavePath(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	bob := seedUser(t, db, "bob", "Bob Stage", "user")
	showID := seedShow(t, db, "The National", alice)
	history := NewHistoryRepo(db)
	forms := NewFormRepo(db, history)

	if err := forms.SaveAdvance(ctx, showID, alice, map[string]string{"doors_time": "19:00"}); err != nil {
		t.Fatalf("save v1: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := forms.SaveAdvance(ctx, showID, alice, map[string]string{"doors_time": "20:00"}); err != nil {
		t.Fatalf("save v2: %v", err)
	}

	entries, err := history.List(ctx, showID, model.FormTypeAdvance)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	// Newest first; find the 19:00 snapshot by payload.
	var target *model.HistoryEntry
	for i := range entries {
		e, err := history.Get(ctx, entries[i].ID)
		if err != nil {
			t.Fatalf("get entry: %v", err)
		}
		if e.Snapshot == `{"advance_data":{"doors_time":"19:00"}}` {
			target = e
		}
	}
	if target == nil {
		t.Fatalf("19:00 snapshot not found in %d entries", len(entries))
	}

	before := len(entries)
	time.Sleep(5 * time.Millisecond)
	if err := forms.RestoreSnapshot(ctx, target, bob); err != nil {
		t.Fatalf("restore: %v", err)
	}

	data, err := forms.AdvanceData(ctx, showID)
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	if data["doors_time"] != "19:00" {
		t.Errorf("doors_time = %q after restore, want 19:00", data["doors_time"])
	}

	// The restore is itself a save: one new entry, attributed to bob.
	entries, err = history.List(ctx, showID, model.FormTypeAdvance)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != before+1 {
		t.Errorf("history entries = %d, want %d", len(entries), before+1)
	}
	if entries[0].SavedBy != bob {
		t.Errorf("restore snapshot saved_by = %d, want %d", entries[0].SavedBy, bob)
	}
	s, err := NewShowRepo(db).GetByID(ctx, showID)
	if err != nil {
		t.Fatalf("get show: %v", err)
	}
	if s.LastSavedBy != bob {
		t.Errorf("last_saved_by = %d after restore, want %d", s.LastSavedBy, bob)
	}
}
