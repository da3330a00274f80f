package repository

import (
	"bytes"
	"context"
	"testing"

	"github.com/ShowSysDan/ShowAdvance/internal/model"
)

func TestAttachmentRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "Alice Ops", "user")
	showID := seedShow(t, db, "The National", alice)
	attachments := NewAttachmentRepo(db)

	blob := []byte("%PDF-1.4 fake rider")
	a := &model.Attachment{
		ShowID:     showID,
		UploadedBy: alice,
		Filename:   "rider.pdf",
		MimeType:   "application/pdf",
		Data:       blob,
	}
	if err := attachments.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.FileSize != int64(len(blob)) {
		t.Errorf("file size = %d, want %d", a.FileSize, len(blob))
	}

	// The listing carries metadata but not the blob.
	list, err := attachments.ListByShow(ctx, showID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Filename != "rider.pdf" {
		t.Fatalf("list = %+v", list)
	}
	if len(list[0].Data) != 0 {
		t.Error("listing included file data")
	}

	got, err := attachments.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got.Data, blob) {
		t.Errorf("blob mismatch: %q", got.Data)
	}

	if err := attachments.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := attachments.Get(ctx, a.ID); err != ErrAttachmentNotFound {
		t.Errorf("get deleted err = %v, want ErrAttachmentNotFound", err)
	}
}
