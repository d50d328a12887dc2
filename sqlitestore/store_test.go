package sqlitestore_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/phanxgames/scratchcard/sqlitestore"
)

func openMemory(t *testing.T) *sqlitestore.Blobs {
	t.Helper()
	b, err := sqlitestore.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestGetMissing(t *testing.T) {
	b := openMemory(t)
	got, err := b.Get(context.Background(), "scratchProgress")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %q, want nil", got)
	}
}

func TestSetGet(t *testing.T) {
	b := openMemory(t)
	ctx := context.Background()

	if err := b.Set(ctx, "k", []byte(`[null]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Set(ctx, "k", []byte(`["data:image/png;base64,AA=="]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if want := []byte(`["data:image/png;base64,AA=="]`); !bytes.Equal(got, want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	var n int
	if err := b.DB().QueryRow(`SELECT COUNT(*) FROM blobs`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestUpdatedAt(t *testing.T) {
	b := openMemory(t)
	ctx := context.Background()

	ts, err := b.UpdatedAt(ctx, "k")
	if err != nil {
		t.Fatalf("UpdatedAt: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("UpdatedAt before write = %v, want zero", ts)
	}
	if err := b.Set(ctx, "k", []byte("x")); err != nil {
		t.Fatal(err)
	}
	ts, err = b.UpdatedAt(ctx, "k")
	if err != nil {
		t.Fatalf("UpdatedAt: %v", err)
	}
	if ts.IsZero() {
		t.Error("UpdatedAt after write is zero")
	}
}

func TestSetNilStoresEmpty(t *testing.T) {
	b := openMemory(t)
	ctx := context.Background()
	if err := b.Set(ctx, "k", nil); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get = %q, want empty", got)
	}
}

func TestOpenFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.db")
	ctx := context.Background()

	b, err := sqlitestore.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := b.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	b, err = sqlitestore.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	got, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v" {
		t.Errorf("Get after reopen = %q, want %q", got, "v")
	}
}
