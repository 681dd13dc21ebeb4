package format

import (
	"errors"
	"io"
)

// legacyMagic is the 8-byte framing magic that opens a pre-zip tensor
// archive, reproduced from the ecosystem this scanner must stay
// byte-compatible with. The real value the reference implementation checks
// is carried as a pickled Python long wider than 8 bytes; this scanner
// compares only the leading 8 bytes of that constant, matching spec.md
// §4.4.1's own simplification to "a fixed 8-byte framing magic" rather than
// reimplementing arbitrary-precision pickled integer decoding for a single
// constant check.
var legacyMagic = [8]byte{0x19, 0x50, 0xa8, 0x6a, 0x20, 0xf9, 0x46, 0x9c}

// ErrInvalidMagic is returned when a stream routed down the legacy
// tensor-archive path doesn't open with legacyMagic.
var ErrInvalidMagic = errors.New("format: invalid tensor-archive magic")

// CheckLegacyMagic reads and validates the 8-byte legacy framing magic,
// leaving the stream positioned just after it on success.
func CheckLegacyMagic(r io.Reader) error {
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return err
	}
	if got != legacyMagic {
		return ErrInvalidMagic
	}
	return nil
}
