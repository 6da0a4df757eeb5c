// Binary encoding for dictionary pattern blobs.
//
// JSON would do, but pattern lists are the dominant blob and the compact form
// keeps large dictionaries cheap to load. Format (little-endian):
//
//	patternCount: uint32
//	per pattern:
//	  len:   uint16
//	  bytes: [len]byte
//
// Pattern order is preserved — it is the insertion order the matcher replays.
package store

import (
	"encoding/binary"
	"fmt"
)

// encodePatterns encodes a pattern list to the compact binary format.
// A single buffer is pre-allocated to avoid repeated growth.
func encodePatterns(patterns []string) ([]byte, error) {
	totalSize := 4
	for _, p := range patterns {
		if len(p) > 65535 {
			return nil, fmt.Errorf("pattern too long (%d bytes)", len(p))
		}
		totalSize += 2 + len(p)
	}

	buf := make([]byte, totalSize)
	offset := 0

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(patterns)))
	offset += 4

	for _, p := range patterns {
		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(p)))
		offset += 2
		copy(buf[offset:], p)
		offset += len(p)
	}
	return buf, nil
}

// decodePatterns decodes a binary pattern blob. A nil or empty blob decodes
// to nil (empty dictionary).
func decodePatterns(blob []byte) ([]string, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob) < 4 {
		return nil, fmt.Errorf("truncated blob (%d bytes)", len(blob))
	}

	count := binary.LittleEndian.Uint32(blob)
	offset := 4

	patterns := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if offset+2 > len(blob) {
			return nil, fmt.Errorf("truncated pattern length at offset %d", offset)
		}
		n := int(binary.LittleEndian.Uint16(blob[offset:]))
		offset += 2
		if offset+n > len(blob) {
			return nil, fmt.Errorf("truncated pattern at offset %d", offset)
		}
		patterns = append(patterns, string(blob[offset:offset+n]))
		offset += n
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return patterns, nil
}
