package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "catalog")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openStore(t)

	base := time.Now().Add(-time.Minute)
	names := []string{"game.created", "game.updated", "game.deleted"}
	for i, name := range names {
		err := store.Append(Entry{
			GameID:    "g1",
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	// Newest first.
	for i, want := range []string{"game.deleted", "game.updated", "game.created"} {
		if entries[i].Name != want {
			t.Fatalf("entry %d: want %s, got %s", i, want, entries[i].Name)
		}
	}
	for _, e := range entries {
		if e.ID == "" || e.CreatedAt.IsZero() {
			t.Fatalf("entry not normalized: %+v", e)
		}
	}
}

func TestRecentLimit(t *testing.T) {
	store := openStore(t)

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		err := store.Append(Entry{
			GameID:    "g1",
			Name:      "game.rated",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit ignored: got %d", len(entries))
	}
}

func TestSizeAndCleanup(t *testing.T) {
	store := openStore(t)

	old := time.Now().Add(-48 * time.Hour)
	fresh := time.Now()
	for i := 0; i < 3; i++ {
		if err := store.Append(Entry{GameID: "g1", Name: "old", CreatedAt: old.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := store.Append(Entry{GameID: "g1", Name: "fresh", CreatedAt: fresh}); err != nil {
		t.Fatalf("append: %v", err)
	}

	size, err := store.Size()
	if err != nil || size != 4 {
		t.Fatalf("size = %d, err = %v", size, err)
	}

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	size, err = store.Size()
	if err != nil || size != 1 {
		t.Fatalf("after cleanup: size = %d, err = %v", size, err)
	}
	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "fresh" {
		t.Fatalf("cleanup kept the wrong rows: %+v", entries)
	}
}

func TestClosedStore(t *testing.T) {
	store := openStore(t)
	store.Close()

	if err := store.Append(Entry{GameID: "g1", Name: "x"}); err == nil {
		t.Fatal("append on a closed store must fail")
	}
}
