package zkp

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FieldBytes is the canonical big-endian encoding of a field element. It is comparable,
// so it doubles as a map key for hash-indexed lookups.
type FieldBytes [ElementSize]byte

func FieldBytesOf(e fr.Element) FieldBytes {
	return FieldBytes(e.Bytes())
}

func (f FieldBytes) Element() fr.Element {
	var e fr.Element
	e.SetBytes(f[:])
	return e
}

func (f FieldBytes) IsZero() bool {
	return f == FieldBytes{}
}

func (f FieldBytes) Hex() string {
	return "0x" + hex.EncodeToString(f[:])
}

func (f FieldBytes) String() string {
	return f.Hex()
}

func (f FieldBytes) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

func (f *FieldBytes) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldBytes(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFieldBytes accepts 64 hex characters with an optional 0x prefix.
func ParseFieldBytes(s string) (FieldBytes, error) {
	var out FieldBytes

	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(trimmed) != 2*ElementSize {
		return out, fmt.Errorf("expected %d hex characters, got %d", 2*ElementSize, len(trimmed))
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("invalid hex: %w", err)
	}
	if _, err := ElementFromCanonical(raw); err != nil {
		return out, err
	}

	copy(out[:], raw)
	return out, nil
}
