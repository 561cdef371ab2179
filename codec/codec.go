package codec

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

type OddLengthError struct {
	Length int
}

func (e *OddLengthError) Error() string {
	return fmt.Sprintf("hex string must have an even length, got %d", e.Length)
}

// ToHex encodes b as lowercase hex, two digits per byte.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

func ToBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64Decode decodes standard base64. Like a browser's atob it ignores
// ASCII whitespace and accepts input with the trailing padding left out.
func Base64Decode(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	enc := base64.StdEncoding
	if len(s)%4 != 0 {
		enc = base64.RawStdEncoding
		s = strings.TrimRight(s, "=")
	}

	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return b, nil
}

func Base16Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, &OddLengthError{Length: len(s)}
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// Is reports whether every bit set in mask is also set in value.
func Is(value, mask uint64) bool {
	return value&mask == mask
}
