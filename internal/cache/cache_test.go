package cache

import (
	"path/filepath"
	"testing"

	"github.com/litsort/litsort/internal/reference"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutAndGet(t *testing.T) {
	db := openTestDB(t)

	in := &reference.Metadata{
		DOI:      "10.1038/nature12373",
		Title:    "Nanometre-scale thermometry",
		Authors:  []reference.Author{{Family: "Kucsko", Given: "Georg"}},
		Year:     "2013",
		Journal:  "Nature",
		Volume:   "500",
		Issue:    "7460",
		Pages:    "54-58",
		Subjects: []string{"Physics", "Materials science"},
		Source:   "crossref",
	}
	if err := db.Put(in); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := db.Get(in.DOI)
	if !ok {
		t.Fatal("Get() miss after Put()")
	}
	if got.Title != in.Title || got.Year != in.Year || got.Source != in.Source {
		t.Errorf("Get() = %+v, want %+v", got, in)
	}
	if len(got.Authors) != 1 || got.Authors[0].Family != "Kucsko" {
		t.Errorf("Authors = %+v", got.Authors)
	}
	if len(got.Subjects) != 2 || got.Subjects[0] != "Physics" {
		t.Errorf("Subjects = %v", got.Subjects)
	}
}

func TestGetMiss(t *testing.T) {
	db := openTestDB(t)
	if _, ok := db.Get("10.9999/absent"); ok {
		t.Error("Get() hit on empty cache")
	}
}

func TestPutReplacesExisting(t *testing.T) {
	db := openTestDB(t)

	first := &reference.Metadata{DOI: "10.1/x", Title: "Old", Source: "openalex"}
	second := &reference.Metadata{DOI: "10.1/x", Title: "New", Source: "crossref"}
	if err := db.Put(first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := db.Put(second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok := db.Get("10.1/x")
	if !ok || got.Title != "New" {
		t.Errorf("Get() = %+v, want replaced entry", got)
	}

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}
