package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/clipfeed/internal/apperror"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Fast (no disk I/O), isolated (each test gets its own database), and clean
// (destroyed when the connection closes).
//
// The `t.Helper()` call tells Go's test framework to report errors at the
// CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGet_MissingKey(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), "posts")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Get() on missing key: error = %v, want ErrNotFound", err)
	}
}

func TestPutGet_Roundtrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	want := []byte(`{"alice":{"plan":"free"}}`)
	if err := db.Put(ctx, "users", want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := db.Get(ctx, "users")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Get() = %s, want %s", got, want)
	}
}

func TestPut_ReplacesPreviousValue(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "currentUser", []byte(`"alice"`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := db.Put(ctx, "currentUser", []byte(`"bob"`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := db.Get(ctx, "currentUser")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `"bob"` {
		t.Errorf("Get() after overwrite = %s, want %q", got, `"bob"`)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "currentUser", []byte(`"alice"`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := db.Delete(ctx, "currentUser"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.Get(ctx, "currentUser")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Get() after delete: error = %v, want ErrNotFound", err)
	}

	// Deleting again must not error — delete is idempotent
	if err := db.Delete(ctx, "currentUser"); err != nil {
		t.Errorf("Delete() of absent key error = %v, want nil", err)
	}
}
