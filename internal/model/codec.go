package model

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a config document with stable, human-editable formatting.
func Encode(c WatermarkConfig) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a config document. Loading merges over Default(): fields
// absent from the document keep their default value and unknown fields are
// ignored, so documents written by older or newer builds still load. The
// result is clamped before it is returned.
func Decode(data []byte) (WatermarkConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("decode config: %w", err)
	}
	c.Clamp()
	return c, nil
}
