package repository

import (
	"context"
	"testing"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

func TestContactsByDepartment(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	contacts := NewContactRepo(db)

	seed := []model.Contact{
		{Name: "Pat Sound", Department: "Production"},
		{Name: "Sam Lights", Department: "Production"},
		{Name: "Lee Door", Department: ""},
	}
	for i := range seed {
		if err := contacts.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("create %s: %v", seed[i].Name, err)
		}
	}

	byDept, err := contacts.ByDepartment(ctx)
	if err != nil {
		t.Fatalf("by department: %v", err)
	}
	if len(byDept["Production"]) != 2 {
		t.Errorf("Production = %d contacts, want 2", len(byDept["Production"]))
	}
	if len(byDept["Other"]) != 1 || byDept["Other"][0].Name != "Lee Door" {
		t.Errorf("departmentless contact not grouped under Other: %+v", byDept["Other"])
	}
}

func TestContactUpdateAndDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	contacts := NewContactRepo(db)

	c := &model.Contact{Name: "Pat Sound", Department: "Production"}
	if err := contacts.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	c.Phone = "555-0100"
	if err := contacts.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := contacts.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Phone != "555-0100" {
		t.Errorf("after update: %+v", list)
	}

	if err := contacts.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := contacts.Delete(ctx, c.ID); err != ErrContactNotFound {
		t.Errorf("double delete err = %v, want ErrContactNotFound", err)
	}
}
