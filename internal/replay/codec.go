package replay

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a trace to its canonical JSON form. The round trip
// through Decode is lossless.
func Encode(t *Trace) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("replay: encode trace: %w", err)
	}
	return data, nil
}

// Decode parses a serialized trace, rejecting malformed input before any of
// it can reach the simulation.
func Decode(data []byte) (*Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("replay: decode trace: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
