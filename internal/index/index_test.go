package index

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/scratch/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "scratch-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		ID:       "n1",
		Checksum: "abc123",
		Body:     "Buy milk",
	}
	if err := db.UpsertNote(row); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("n1")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestUpsertKeepsCreatedAt(t *testing.T) {
	db := testDB(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	_ = db.UpsertNote(NoteRow{ID: "up", Checksum: "1", Body: "old body", CreatedAt: created})
	_ = db.UpsertNote(NoteRow{ID: "up", Checksum: "2", Body: "new body", CreatedAt: time.Now()})

	n, err := db.GetNote("up")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Checksum != "2" || n.Body != "new body" {
		t.Errorf("row = %+v, want updated checksum and body", n)
	}
	if !n.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", n.CreatedAt, created)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetNote("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{ID: "del", Checksum: "x", Body: "body"})

	if err := db.DeleteNote("del"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
}

func TestListNotes_OrderAndPaging(t *testing.T) {
	db := testDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		_ = db.UpsertNote(NoteRow{ID: id, Checksum: id, Body: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	rows, total, err := db.ListNotes(0, 0)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("total = %d, len = %d, want 3/3", total, len(rows))
	}
	for i, want := range []string{"c", "a", "b"} {
		if rows[i].ID != want {
			t.Errorf("rows[%d] = %q, want %q (creation order)", i, rows[i].ID, want)
		}
	}

	page, total, err := db.ListNotes(1, 1)
	if err != nil {
		t.Fatalf("ListNotes page: %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].ID != "a" {
		t.Errorf("page = %+v (total %d), want [a] of 3", page, total)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{ID: "a", Checksum: "1"})
	_ = db.UpsertNote(NoteRow{ID: "b", Checksum: "2"})

	got, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Errorf("checksums = %v", got)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}
