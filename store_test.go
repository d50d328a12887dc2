package scratchcard

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestSession(persist bool) *Session {
	return NewSession(NewStore(NewMemoryBlobs()), persist, nil)
}

func TestStoreGetEmpty(t *testing.T) {
	s := newTestSession(true)
	if _, err := s.Store.Get(context.Background(), 0); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Get = %v, want ErrNoSnapshot", err)
	}
	if _, err := s.Store.Get(context.Background(), -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Get(-1) = %v, want ErrIndexOutOfRange", err)
	}
}

func TestStorePutGrowsCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(true)
	snap := snapshotWithFraction(t, 4, 4, 0.25)

	if err := s.Store.Put(ctx, 3, snap); err != nil {
		t.Fatalf("Put: %v", err)
	}
	snaps, err := s.Store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snaps) != 4 {
		t.Fatalf("len = %d, want 4", len(snaps))
	}
	for i := 0; i < 3; i++ {
		if !snaps[i].Empty() {
			t.Errorf("slot %d should be empty", i)
		}
	}
	got, err := s.Store.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, snap) {
		t.Error("Get returned different bytes than Put")
	}
	if _, err := s.Store.Get(ctx, 9); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Get past end = %v, want ErrNoSnapshot", err)
	}
}

func TestStorePutKeepsOtherSlots(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(true)
	a := snapshotWithFraction(t, 4, 4, 0.25)
	b := snapshotWithFraction(t, 4, 4, 0.75)

	if err := s.Store.Put(ctx, 0, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Store.Put(ctx, 1, b); err != nil {
		t.Fatal(err)
	}
	got0, _ := s.Store.Get(ctx, 0)
	got1, _ := s.Store.Get(ctx, 1)
	if !bytes.Equal(got0, a) || !bytes.Equal(got1, b) {
		t.Error("writing slot 1 clobbered slot 0")
	}
}

func TestStoreToggleGatesSlots(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(true)
	snap := snapshotWithFraction(t, 4, 4, 0.5)
	if err := s.Store.Put(ctx, 0, snap); err != nil {
		t.Fatal(err)
	}

	s.Persist.Set(false)
	if _, err := s.Store.Get(ctx, 0); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Get with persistence off = %v, want ErrNoSnapshot", err)
	}
	other := snapshotWithFraction(t, 4, 4, 1)
	if err := s.Store.Put(ctx, 0, other); err != nil {
		t.Fatalf("Put with persistence off: %v", err)
	}

	// Switching off never deletes and never writes.
	s.Persist.Set(true)
	got, err := s.Store.Get(ctx, 0)
	if err != nil {
		t.Fatalf("Get after re-enabling: %v", err)
	}
	if !bytes.Equal(got, snap) {
		t.Error("stored progress changed while persistence was off")
	}
}

func TestStoreLoadIgnoresToggle(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(true)
	if err := s.Store.Put(ctx, 1, snapshotWithFraction(t, 2, 2, 0)); err != nil {
		t.Fatal(err)
	}
	s.Persist.Set(false)
	snaps, err := s.Store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("len = %d, want 2", len(snaps))
	}
}

func TestStoreMalformedBlobIsEmpty(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	if err := blobs.Set(ctx, StoreNamespace, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	store := NewStore(blobs)
	NewSession(store, true, nil)

	snaps, err := store.Load(ctx)
	if err != nil || snaps != nil {
		t.Errorf("Load = (%v, %v), want empty collection", snaps, err)
	}
	if _, err := store.Get(ctx, 0); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Get = %v, want ErrNoSnapshot", err)
	}
	// A write replaces the malformed blob.
	if err := store.Put(ctx, 0, snapshotWithFraction(t, 2, 2, 0)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Get(ctx, 0); err != nil {
		t.Errorf("Get after Put: %v", err)
	}
}

func TestStoreReset(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(true)
	for i := 0; i < 5; i++ {
		if err := s.Store.Put(ctx, CardIndex(i), snapshotWithFraction(t, 2, 2, 0.5)); err != nil {
			t.Fatal(err)
		}
	}
	s.Persist.Set(false)
	if err := s.Store.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	snaps, err := s.Store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 5 {
		t.Fatalf("len after Reset = %d, want 5", len(snaps))
	}
	for i, snap := range snaps {
		if !snap.Empty() {
			t.Errorf("slot %d not empty after Reset", i)
		}
	}
}

func TestStoreResetEmptyCollection(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobs()
	s := NewSession(NewStore(blobs), false, nil)
	if err := s.Store.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	blob, _ := blobs.Get(ctx, StoreNamespace)
	if string(blob) != "[]" {
		t.Errorf("blob = %q, want []", blob)
	}
}

func TestStoreWithoutToggleIsDisabled(t *testing.T) {
	store := NewStore(NewMemoryBlobs())
	if store.Enabled() {
		t.Error("store without a toggle should be disabled")
	}
	var nilStore *Store
	if nilStore.Enabled() {
		t.Error("nil store should be disabled")
	}
}

func TestMemoryBlobsCopies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlobs()
	v := []byte("abc")
	if err := b.Set(ctx, "k", v); err != nil {
		t.Fatal(err)
	}
	v[0] = 'x'
	got, _ := b.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get = %q, want abc", got)
	}
	got[1] = 'y'
	again, _ := b.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("Get after mutating result = %q, want abc", again)
	}
	missing, err := b.Get(ctx, "missing")
	if missing != nil || err != nil {
		t.Errorf("Get(missing) = (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestFileBlobs(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	b := NewFileBlobs(dir)

	got, err := b.Get(ctx, StoreNamespace)
	if got != nil || err != nil {
		t.Fatalf("Get before Set = (%v, %v), want (nil, nil)", got, err)
	}
	if err := b.Set(ctx, StoreNamespace, []byte("[null]")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, StoreNamespace+".json")); err != nil {
		t.Errorf("blob file missing: %v", err)
	}
	got, err = b.Get(ctx, StoreNamespace)
	if err != nil || string(got) != "[null]" {
		t.Errorf("Get = (%q, %v), want [null]", got, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestFileBlobsInvalidKey(t *testing.T) {
	ctx := context.Background()
	b := NewFileBlobs(t.TempDir())
	for _, key := range []string{"", ".", "..", "a/b", `a\b`} {
		if err := b.Set(ctx, key, nil); err == nil {
			t.Errorf("Set(%q) succeeded, want error", key)
		}
		if _, err := b.Get(ctx, key); err == nil {
			t.Errorf("Get(%q) succeeded, want error", key)
		}
	}
}

func TestFileBlobsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := NewFileBlobs(t.TempDir())
	if err := b.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("Set = %v, want context.Canceled", err)
	}
}

func TestStoreOverFileBlobsSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	snap := snapshotWithFraction(t, 4, 4, 0.5)

	first := NewSession(NewStore(NewFileBlobs(dir)), true, nil)
	if err := first.Store.Put(ctx, 2, snap); err != nil {
		t.Fatal(err)
	}

	second := NewSession(NewStore(NewFileBlobs(dir)), true, nil)
	got, err := second.Store.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get after restart: %v", err)
	}
	if !bytes.Equal(got, snap) {
		t.Error("snapshot changed across restart")
	}
}
