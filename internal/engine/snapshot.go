package engine

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the persistence triple of an Engine: the current value, the
// visible log and the position. Rehydrating from a Snapshot yields an Engine
// that navigates exactly like the one it was taken from.
type Snapshot struct {
	Value    any     `json:"state" yaml:"state"`
	Patches  Patches `json:"patches" yaml:"patches"`
	Position int     `json:"position" yaml:"position"`
}

// Snapshot captures the current value, the visible log and the position.
// Pending manual-mode edits appear as one consolidated entry.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Value:    e.value,
		Patches:  e.Patches(),
		Position: e.position,
	}
}

// FromSnapshot creates an Engine from snap. Options given after snap's own
// initial patches and position take precedence.
func FromSnapshot(snap Snapshot, opts ...Option) (*Engine, error) {
	all := append([]Option{
		WithInitialPatches(snap.Patches),
		WithInitialPosition(snap.Position),
	}, opts...)
	return New(snap.Value, all...)
}

// EncodeSnapshot encodes snap as JSON.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return data, nil
}

// DecodeSnapshot decodes a JSON snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}
