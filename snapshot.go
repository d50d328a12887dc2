package scratchcard

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// dataURLPrefix is how snapshots are spelled inside the stored collection.
const dataURLPrefix = "data:image/png;base64,"

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// ErrBadSnapshot is returned when a snapshot cannot be decoded.
var ErrBadSnapshot = errors.New("scratchcard: bad snapshot")

// Snapshot is the PNG encoding of one card's scratch layer. A nil Snapshot
// means the card has not been started.
//
// In JSON a Snapshot is a PNG data URL, or null when empty.
type Snapshot []byte

// Empty reports whether the snapshot holds no image.
func (s Snapshot) Empty() bool {
	return len(s) == 0
}

// DataURL returns the snapshot as a data URL, or "" when empty.
func (s Snapshot) DataURL() string {
	if s.Empty() {
		return ""
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(s)
}

// ParseDataURL decodes a PNG data URL into a Snapshot.
func ParseDataURL(u string) (Snapshot, error) {
	if !strings.HasPrefix(u, dataURLPrefix) {
		return nil, fmt.Errorf("%w: not a png data url", ErrBadSnapshot)
	}
	raw, err := base64.StdEncoding.DecodeString(u[len(dataURLPrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if !bytes.HasPrefix(raw, pngMagic) {
		return nil, fmt.Errorf("%w: missing png signature", ErrBadSnapshot)
	}
	return Snapshot(raw), nil
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.Empty() {
		return []byte("null"), nil
	}
	return json.Marshal(s.DataURL())
}

// UnmarshalJSON implements json.Unmarshaler. Slots that are not strings or
// do not hold a PNG data URL decode as empty rather than failing the whole
// collection.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	*s = nil
	var u string
	if err := json.Unmarshal(data, &u); err != nil {
		return nil
	}
	snap, err := ParseDataURL(u)
	if err != nil {
		return nil
	}
	*s = snap
	return nil
}

// decodeSnapshots parses a stored collection. Malformed data yields an empty
// collection.
func decodeSnapshots(blob []byte) ([]Snapshot, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return nil, nil
	}
	var out []Snapshot
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StoreNamespace, err)
	}
	return out, nil
}

func encodeSnapshots(snaps []Snapshot) ([]byte, error) {
	if snaps == nil {
		snaps = []Snapshot{}
	}
	return json.Marshal(snaps)
}
