package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrParseFailure is returned for inbound payloads that are not a valid
// full-grid snapshot.
var ErrParseFailure = errors.New("snapshot parse failure")

// Snapshot is a full copy of every cell, in index order.
type Snapshot []Symbol

// snapshotMessage is the inbound wire format: {"data": "<N² symbols>"}.
// Data may also arrive as an array of one-symbol strings.
type snapshotMessage struct {
	Data json.RawMessage `json:"data"`
}

// ParseSnapshot decodes an inbound message into a Snapshot. Anything other
// than exactly CellCount valid symbols is rejected with ErrParseFailure.
func ParseSnapshot(raw []byte) (Snapshot, error) {
	var msg snapshotMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if len(msg.Data) == 0 || string(msg.Data) == "null" {
		return nil, fmt.Errorf("%w: missing data field", ErrParseFailure)
	}

	cells, err := decodeCells(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if len(cells) != CellCount {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrParseFailure, len(cells), CellCount)
	}

	snap := make(Snapshot, CellCount)
	for i, cell := range cells {
		if len(cell) != 1 || !Symbol(cell[0]).Valid() {
			return nil, fmt.Errorf("%w: invalid symbol %q at index %d", ErrParseFailure, cell, i)
		}
		snap[i] = Symbol(cell[0])
	}
	return snap, nil
}

// decodeCells accepts the data field as one string or as a string array
// and returns one entry per cell.
func decodeCells(data json.RawMessage) ([]string, error) {
	var flat string
	if err := json.Unmarshal(data, &flat); err == nil {
		cells := make([]string, len(flat))
		for i := 0; i < len(flat); i++ {
			cells[i] = flat[i : i+1]
		}
		return cells, nil
	}
	var cells []string
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, errors.New("data is neither a string nor a string array")
	}
	return cells, nil
}

// Encode renders the snapshot back into its inbound wire format.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(struct {
		Data string `json:"data"`
	}{Data: s.String()})
}

func (s Snapshot) String() string {
	b := make([]byte, len(s))
	for i, sym := range s {
		b[i] = byte(sym)
	}
	return string(b)
}

// Uniform returns a snapshot with every cell set to sym.
func Uniform(sym Symbol) Snapshot {
	snap := make(Snapshot, CellCount)
	for i := range snap {
		snap[i] = sym
	}
	return snap
}
