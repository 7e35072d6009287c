package cache

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMiss(t *testing.T) {
	db := openTest(t)
	e, err := db.Get("content/post/a.md", "sum1", "cfg1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e != nil {
		t.Errorf("expected miss, got %+v", e)
	}
}

func TestPutAndGet(t *testing.T) {
	db := openTest(t)
	in := Entry{
		Path:        "content/post/a.md",
		ContentSum:  "sum1",
		ConfigSum:   "cfg1",
		Flagged:     true,
		Diagnostics: []string{"Found 1 line with whitespaces at the end"},
	}
	if err := db.Put(in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := db.Get(in.Path, in.ContentSum, in.ConfigSum)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected hit")
	}
	if !got.Flagged {
		t.Error("flagged not round-tripped")
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0] != in.Diagnostics[0] {
		t.Errorf("diagnostics = %v", got.Diagnostics)
	}
	if got.CheckedAt.IsZero() {
		t.Error("checked_at not set")
	}
}

func TestChangedContentMisses(t *testing.T) {
	db := openTest(t)
	if err := db.Put(Entry{Path: "a.md", ContentSum: "sum1", ConfigSum: "cfg1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if e, _ := db.Get("a.md", "sum2", "cfg1"); e != nil {
		t.Error("changed content must miss")
	}
	if e, _ := db.Get("a.md", "sum1", "cfg2"); e != nil {
		t.Error("changed config must miss")
	}
}

func TestPutReplaces(t *testing.T) {
	db := openTest(t)
	if err := db.Put(Entry{Path: "a.md", ContentSum: "sum1", ConfigSum: "cfg1", Flagged: true}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := db.Put(Entry{Path: "a.md", ContentSum: "sum2", ConfigSum: "cfg1", Flagged: false}); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	got, err := db.Get("a.md", "sum2", "cfg1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected hit after replace")
	}
	if got.Flagged {
		t.Error("flagged should be replaced")
	}
}
