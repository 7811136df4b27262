package salt

import (
	"errors"
	"fmt"
)

// Width is the fixed byte width of a formatted salt.
const Width = 32

// ErrTooLong is returned when the UTF-8 encoding of a salt string exceeds
// the fixed width. Truncating would change the deployment address the
// operator asked for, so over-long salts are rejected outright.
var ErrTooLong = errors.New("salt exceeds 32 bytes")

// Formatted is a salt padded to the fixed width. Every chain derives the
// deployment address from the same formatted value, which is what makes
// cross-chain addresses match.
type Formatted [Width]byte

// Format UTF-8-encodes the salt string and left-pads it with zero bytes
// to exactly 32 bytes.
func Format(s string) (Formatted, error) {
	var out Formatted

	encoded := []byte(s)
	if len(encoded) > Width {
		return out, fmt.Errorf("%w: %q is %d bytes", ErrTooLong, s, len(encoded))
	}

	copy(out[Width-len(encoded):], encoded)

	return out, nil
}

// Bytes returns the salt as a byte slice.
func (f Formatted) Bytes() []byte {
	return f[:]
}
