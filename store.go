package scratchcard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	// ErrNoSnapshot is returned when a card has no stored progress, or
	// persistence is switched off.
	ErrNoSnapshot = errors.New("scratchcard: no snapshot")
	// ErrIndexOutOfRange is returned for negative card indices.
	ErrIndexOutOfRange = errors.New("scratchcard: card index out of range")
)

// Store is the ordered snapshot collection, one slot per CardIndex, kept as a
// single JSON blob under StoreNamespace. Reads and writes of individual slots
// honour the session's persistence toggle; Load and Reset do not.
//
// Every slot write re-reads the collection first, so two surfaces writing
// different slots never clobber each other.
type Store struct {
	blobs  Blobs
	key    string
	toggle *Toggle
	log    *slog.Logger
}

// NewStore returns a store over blobs using the StoreNamespace key.
// Persistence is off until a toggle is attached (NewSession does this).
func NewStore(blobs Blobs) *Store {
	return &Store{blobs: blobs, key: StoreNamespace}
}

// SetToggle attaches the persistence toggle.
func (s *Store) SetToggle(t *Toggle) {
	s.toggle = t
}

// Enabled reports whether slot reads and writes are active.
func (s *Store) Enabled() bool {
	return s != nil && s.toggle.Enabled()
}

func (s *Store) logger() *slog.Logger {
	if s.log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.log
}

// Load returns the whole collection regardless of the toggle. A malformed
// blob is logged and treated as an empty collection.
func (s *Store) Load(ctx context.Context) ([]Snapshot, error) {
	blob, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("scratchcard: load %s: %w", s.key, err)
	}
	snaps, err := decodeSnapshots(blob)
	if err != nil {
		s.logger().Debug("discarding malformed progress", "key", s.key, "err", err)
		return nil, nil
	}
	return snaps, nil
}

// Get returns the snapshot for index. It returns ErrNoSnapshot when the slot
// is empty or persistence is off.
func (s *Store) Get(ctx context.Context, index CardIndex) (Snapshot, error) {
	if index < 0 {
		return nil, ErrIndexOutOfRange
	}
	if !s.Enabled() {
		return nil, ErrNoSnapshot
	}
	snaps, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if int(index) >= len(snaps) || snaps[index].Empty() {
		return nil, ErrNoSnapshot
	}
	return snaps[index], nil
}

// Put overwrites the slot for index. It is a no-op when persistence is off.
func (s *Store) Put(ctx context.Context, index CardIndex, snap Snapshot) error {
	if index < 0 {
		return ErrIndexOutOfRange
	}
	if !s.Enabled() {
		return nil
	}
	snaps, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for len(snaps) <= int(index) {
		snaps = append(snaps, nil)
	}
	snaps[index] = snap
	return s.save(ctx, snaps)
}

// Reset empties every slot, keeping the collection length. It runs whether
// or not persistence is on.
func (s *Store) Reset(ctx context.Context) error {
	snaps, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i := range snaps {
		snaps[i] = nil
	}
	return s.save(ctx, snaps)
}

func (s *Store) save(ctx context.Context, snaps []Snapshot) error {
	blob, err := encodeSnapshots(snaps)
	if err != nil {
		return fmt.Errorf("scratchcard: encode %s: %w", s.key, err)
	}
	if err := s.blobs.Set(ctx, s.key, blob); err != nil {
		return fmt.Errorf("scratchcard: save %s: %w", s.key, err)
	}
	return nil
}
