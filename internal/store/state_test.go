package store

import (
	"testing"

	"github.com/hodan/capyd/internal/database"
)

func setupStateTestDB(t *testing.T) *StateStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStateStore(db)
}

func TestStateGetMissing(t *testing.T) {
	ss := setupStateTestDB(t)

	got, err := ss.Get(StateKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing key, got %q", got)
	}
}

func TestStateSetGetOverwrite(t *testing.T) {
	ss := setupStateTestDB(t)

	if err := ss.Set(StateKey, []byte(`{"coins":5}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := ss.Get(StateKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"coins":5}` {
		t.Errorf("got %q", got)
	}

	if err := ss.Set(StateKey, []byte(`{"coins":9}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = ss.Get(StateKey)
	if string(got) != `{"coins":9}` {
		t.Errorf("after overwrite got %q", got)
	}
}

func TestStateKeysIndependent(t *testing.T) {
	ss := setupStateTestDB(t)

	ss.Set(StateKey, []byte("a"))
	ss.Set(ShopStateKey, []byte("b"))

	got, _ := ss.Get(ShopStateKey)
	if string(got) != "b" {
		t.Errorf("shop state = %q, want b", got)
	}
	got, _ = ss.Get(StateKey)
	if string(got) != "a" {
		t.Errorf("store state = %q, want a", got)
	}
}

func TestStateDelete(t *testing.T) {
	ss := setupStateTestDB(t)

	ss.Set(StateKey, []byte("x"))
	if err := ss.Delete(StateKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := ss.Get(StateKey)
	if got != nil {
		t.Errorf("expected nil after delete, got %q", got)
	}

	// Deleting an absent key is a no-op
	if err := ss.Delete("nope"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}
