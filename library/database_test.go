package library

import (
	"path/filepath"
	"sync"
	"testing"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSetGetDelete(t *testing.T) {
	db := tempDB(t)

	if _, ok, err := db.Get("token"); err != nil || ok {
		t.Fatalf("want missing key, got ok=%v err=%v", ok, err)
	}

	if err := db.SetMany(map[string]string{"token": "t1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.SetMany(map[string]string{"token": "t2"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := db.Get("token")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != "t2" {
		t.Fatalf("want t2, got %q", v)
	}

	if err := db.Delete("token", "never-set"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := db.Get("token"); ok {
		t.Fatalf("token should be gone")
	}
}

func TestSetManyIsAtomic(t *testing.T) {
	db := tempDB(t)

	if err := db.SetMany(map[string]string{"a": "1", "b": "2", "c": "3"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	for key, want := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		v, ok, err := db.Get(key)
		if err != nil || !ok || v != want {
			t.Fatalf("%s: want %q, got %q ok=%v err=%v", key, want, v, ok, err)
		}
	}
}

func TestReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.SetMany(map[string]string{"base_url": "http://api:5000"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	db.Close()

	// Migrations must be a no-op on the second open.
	db, err = NewDatabase(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	v, ok, err := db.Get("base_url")
	if err != nil || !ok || v != "http://api:5000" {
		t.Fatalf("want stored base, got %q ok=%v err=%v", v, ok, err)
	}
}

// TestConcurrentWrites makes sure the busy timeout serialises writers instead
// of surfacing SQLITE_BUSY.
func TestConcurrentWrites(t *testing.T) {
	db := tempDB(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- db.SetMany(map[string]string{"token": "t", "role": "user"})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent set: %v", err)
		}
	}
}
