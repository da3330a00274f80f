package repository

import (
	"context"
	"testing"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

func TestAccessAdminSeesEverything(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	admin := seedUser(t, db, "boss", "The Boss", model.RoleAdmin)
	showID := seedShow(t, db, "The National", admin)

	// Even an admin enrolled in a restricted group keeps full access.
	g := seedGroup(t, db, "Interns", model.GroupTypeRestricted)
	addMember(t, db, admin, g)

	access := NewAccessRepo(db)
	set, err := access.AccessibleShows(ctx, admin)
	if err != nil {
		t.Fatalf("accessible shows: %v", err)
	}
	if !set.All || !set.Contains(showID) {
		t.Errorf("admin set = %+v, want All", set)
	}
	ro, err := access.IsReadOnly(ctx, admin)
	if err != nil {
		t.Fatalf("read only: %v", err)
	}
	if ro {
		t.Error("admin reported read-only")
	}
}

func TestAccessNoGroupsMeansFullAccess(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", user)

	access := NewAccessRepo(db)
	ok, err := access.CanAccess(ctx, user, showID)
	if err != nil {
		t.Fatalf("can access: %v", err)
	}
	if !ok {
		t.Error("ungrouped user denied access")
	}
	ro, err := access.IsReadOnly(ctx, user)
	if err != nil {
		t.Fatalf("read only: %v", err)
	}
	if ro {
		t.Error("ungrouped user reported read-only")
	}
}

func TestAccessAllAccessGroupOverridesRestricted(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", user)

	restricted := seedGroup(t, db, "Promoters", model.GroupTypeRestricted)
	allAccess := seedGroup(t, db, "Staff", model.GroupTypeAllAccess)
	addMember(t, db, user, restricted)
	addMember(t, db, user, allAccess)

	access := NewAccessRepo(db)
	set, err := access.AccessibleShows(ctx, user)
	if err != nil {
		t.Fatalf("accessible shows: %v", err)
	}
	if !set.All || !set.Contains(showID) {
		t.Errorf("set = %+v, want All via all_access membership", set)
	}
	ro, err := access.IsReadOnly(ctx, user)
	if err != nil {
		t.Fatalf("read only: %v", err)
	}
	if ro {
		t.Error("mixed-membership user reported read-only")
	}
}

func TestAccessRestrictedSeesUnionOfGrants(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "boss", "The Boss", model.RoleAdmin)
	user := seedUser(t, db, "alice", "Alice Ops", "user")
	showA := seedShow(t, db, "Show A", owner)
	showB := seedShow(t, db, "Show B", owner)
	showC := seedShow(t, db, "Show C", owner)

	g1 := seedGroup(t, db, "Tour A", model.GroupTypeRestricted)
	g2 := seedGroup(t, db, "Tour B", model.GroupTypeRestricted)
	addMember(t, db, user, g1)
	addMember(t, db, user, g2)
	grantShow(t, db, g1, showA)
	grantShow(t, db, g2, showB)

	access := NewAccessRepo(db)
	set, err := access.AccessibleShows(ctx, user)
	if err != nil {
		t.Fatalf("accessible shows: %v", err)
	}
	if set.All {
		t.Fatal("restricted user got All")
	}
	if !set.Contains(showA) || !set.Contains(showB) {
		t.Errorf("set %v missing granted shows %d, %d", set.IDs, showA, showB)
	}
	if set.Contains(showC) {
		t.Errorf("set %v leaks ungranted show %d", set.IDs, showC)
	}

	ro, err := access.IsReadOnly(ctx, user)
	if err != nil {
		t.Fatalf("read only: %v", err)
	}
	if !ro {
		t.Error("fully-restricted user not read-only")
	}
}

func TestAccessRestrictedWithNoGrantsSeesNothing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "boss", "The Boss", model.RoleAdmin)
	user := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", owner)

	g := seedGroup(t, db, "Visitors", model.GroupTypeRestricted)
	addMember(t, db, user, g)

	access := NewAccessRepo(db)
	ok, err := access.CanAccess(ctx, user, showID)
	if err != nil {
		t.Fatalf("can access: %v", err)
	}
	if ok {
		t.Error("restricted user with no grants can see a show")
	}
}

func TestAccessListFiltering(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "boss", "The Boss", model.RoleAdmin)
	user := seedUser(t, db, "alice", "Alice Ops", "user")
	visible := seedShow(t, db, "Visible", owner)
	seedShow(t, db, "Hidden", owner)

	g := seedGroup(t, db, "Tour", model.GroupTypeRestricted)
	addMember(t, db, user, g)
	grantShow(t, db, g, visible)

	set, err := NewAccessRepo(db).AccessibleShows(ctx, user)
	if err != nil {
		t.Fatalf("accessible shows: %v", err)
	}
	listings, err := NewShowRepo(db).ListActive(ctx, set)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != visible {
		t.Errorf("listings = %+v, want only show %d", listings, visible)
	}
}
