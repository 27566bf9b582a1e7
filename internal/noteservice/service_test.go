package noteservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/scratch/internal/apperr"
	"github.com/starford/scratch/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	svc := testutil.TestService(t)
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, []byte("Buy milk\nand eggs"))
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if created.ID == "" || created.Checksum == "" || created.CreatedAt.IsZero() {
		t.Fatalf("incomplete note: %+v", created)
	}

	got, err := svc.GetNote(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Content != "Buy milk\nand eggs" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestUpdate_OptimisticLocking(t *testing.T) {
	svc := testutil.TestService(t)
	ctx := context.Background()

	n, _ := svc.CreateNote(ctx, []byte("v1"))

	updated, err := svc.UpdateNote(ctx, n.ID, []byte("v2"), n.Checksum)
	if err != nil {
		t.Fatalf("UpdateNote with current checksum: %v", err)
	}
	if updated.Content != "v2" {
		t.Errorf("content = %q", updated.Content)
	}
	if !updated.CreatedAt.Equal(n.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", n.CreatedAt, updated.CreatedAt)
	}

	if _, err := svc.UpdateNote(ctx, n.ID, []byte("v3"), n.Checksum); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("stale checksum err = %v, want ErrConflict", err)
	}
	if _, err := svc.UpdateNote(ctx, n.ID, []byte(""), ""); err != nil {
		t.Errorf("unconditional update to empty content: %v", err)
	}
}

func TestUpdate_Missing(t *testing.T) {
	svc := testutil.TestService(t)
	if _, err := svc.UpdateNote(context.Background(), "missing", []byte("x"), ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	svc := testutil.TestService(t)
	ctx := context.Background()
	n, _ := svc.CreateNote(ctx, []byte("bye"))

	if err := svc.DeleteNote(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := svc.GetNote(ctx, n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}

func TestListNotes_QueryAndPaging(t *testing.T) {
	svc := testutil.TestService(t)
	ctx := context.Background()
	for _, c := range []string{"Buy milk", "Call mom", "milk again", "Milk upper"} {
		if _, err := svc.CreateNote(ctx, []byte(c)); err != nil {
			t.Fatalf("CreateNote: %v", err)
		}
	}

	all, total, err := svc.ListNotes(ctx, 0, 0, "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 4 || len(all) != 4 {
		t.Fatalf("total = %d, len = %d, want 4", total, len(all))
	}

	hits, total, err := svc.ListNotes(ctx, 0, 0, "milk")
	if err != nil {
		t.Fatalf("ListNotes query: %v", err)
	}
	if total != 2 || len(hits) != 2 {
		t.Errorf("query hits = %d (total %d), want 2 case-sensitive matches", len(hits), total)
	}

	paged, total, _ := svc.ListNotes(ctx, 1, 1, "milk")
	if total != 2 || len(paged) != 1 {
		t.Errorf("paged = %d (total %d), want 1 of 2", len(paged), total)
	}
}

func TestLocalStore(t *testing.T) {
	svc := testutil.TestService(t)
	ctx := context.Background()
	n, _ := svc.CreateNote(ctx, []byte("Buy milk"))

	local := svc.Local()
	if err := local.UpdateNote(ctx, n.ID, "Buy bread"); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	notes, err := local.ListNotes(ctx)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].Content != "Buy bread" {
		t.Errorf("notes = %+v", notes)
	}
}
