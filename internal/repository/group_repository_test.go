package repository

import (
	"context"
	"testing"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

func TestGroupCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	groups := NewGroupRepo(db)

	g := &model.Group{Name: "Promoters", GroupType: model.GroupTypeRestricted, Description: "external promoters"}
	if err := groups.Create(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.ID == 0 {
		t.Fatal("create did not assign an ID")
	}

	g.Name = "Tour Promoters"
	g.GroupType = model.GroupTypeAllAccess
	if err := groups.Update(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := groups.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Tour Promoters" || got.GroupType != model.GroupTypeAllAccess {
		t.Errorf("after update: %+v", got)
	}

	if err := groups.Delete(ctx, g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := groups.Get(ctx, g.ID); err != ErrGroupNotFound {
		t.Errorf("get deleted err = %v, want ErrGroupNotFound", err)
	}
}

func TestGroupMembershipAndGrants(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	groups := NewGroupRepo(db)
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", alice)
	groupID := seedGroup(t, db, "Tour", model.GroupTypeRestricted)

	// AddMember and GrantShow tolerate duplicates.
	for i := 0; i < 2; i++ {
		if err := groups.AddMember(ctx, groupID, alice); err != nil {
			t.Fatalf("add member: %v", err)
		}
		if err := groups.GrantShow(ctx, groupID, showID); err != nil {
			t.Fatalf("grant show: %v", err)
		}
	}
	members, err := groups.Members(ctx, groupID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 || members[0] != alice {
		t.Errorf("members = %v", members)
	}
	grants, err := groups.Grants(ctx, groupID)
	if err != nil {
		t.Fatalf("grants: %v", err)
	}
	if len(grants) != 1 || grants[0] != showID {
		t.Errorf("grants = %v", grants)
	}

	if err := groups.RemoveMember(ctx, groupID, alice); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if err := groups.RevokeShow(ctx, groupID, showID); err != nil {
		t.Fatalf("revoke show: %v", err)
	}
	members, _ = groups.Members(ctx, groupID)
	grants, _ = groups.Grants(ctx, groupID)
	if len(members) != 0 || len(grants) != 0 {
		t.Errorf("after removal: members=%v grants=%v", members, grants)
	}
}

func TestGroupDeleteRestoresDefaultAccess(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner := seedUser(t, db, "boss", "The Boss", model.RoleAdmin)
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", owner)
	groupID := seedGroup(t, db, "Tour", model.GroupTypeRestricted)
	addMember(t, db, alice, groupID)

	access := NewAccessRepo(db)
	ok, err := access.CanAccess(ctx, alice, showID)
	if err != nil {
		t.Fatalf("can access: %v", err)
	}
	if ok {
		t.Fatal("restricted member saw ungranted show")
	}

	// Deleting alice's only group cascades her membership away, which
	// flips her back to the no-groups default of full access.
	if err := NewGroupRepo(db).Delete(ctx, groupID); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	ok, err = access.CanAccess(ctx, alice, showID)
	if err != nil {
		t.Fatalf("can access: %v", err)
	}
	if !ok {
		t.Error("groupless user denied access after group deletion")
	}
}
