package ir

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// EphIDLength is the size in bytes of an ephemeral identifier.
const EphIDLength = 16

// ErrEphIDLength is returned when raw bytes are not exactly EphIDLength long.
var ErrEphIDLength = errors.New("ephid must be 16 bytes")

// EphID is a time-rotated opaque identifier broadcast by a nearby device.
type EphID [EphIDLength]byte

// ParseEphID copies b into an EphID. b must be exactly EphIDLength bytes.
func ParseEphID(b []byte) (EphID, error) {
	var id EphID
	if len(b) != EphIDLength {
		return id, fmt.Errorf("%w: got %d", ErrEphIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// ParseEphIDHex decodes a hex string into an EphID.
func ParseEphIDHex(s string) (EphID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return EphID{}, fmt.Errorf("decode ephid: %w", err)
	}
	return ParseEphID(b)
}

// Bytes returns a copy of the identifier as a slice.
func (e EphID) Bytes() []byte {
	b := make([]byte, EphIDLength)
	copy(b, e[:])
	return b
}

func (e EphID) String() string {
	return hex.EncodeToString(e[:])
}

// MarshalText encodes the identifier as lowercase hex.
func (e EphID) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes a hex identifier.
func (e *EphID) UnmarshalText(text []byte) error {
	id, err := ParseEphIDHex(string(text))
	if err != nil {
		return err
	}
	*e = id
	return nil
}

// HexBytes is raw key material that encodes as lowercase hex in JSON and YAML.
type HexBytes []byte

func (h HexBytes) String() string {
	return hex.EncodeToString(h)
}

// MarshalText encodes the bytes as lowercase hex.
func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes hex text.
func (h *HexBytes) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	*h = b
	return nil
}
