package validation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrCodeTooLarge = errors.New("code is too large")
	ErrCodeEncoding = errors.New("code must be valid UTF-8 text")
)

// ValidateCode checks a submitted program before it is scored.
// Empty code is allowed and scores as the minimum result.
func ValidateCode(code string, maxBytes int) error {
	if len(code) > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrCodeTooLarge, len(code), maxBytes)
	}
	if !utf8.ValidString(code) {
		return ErrCodeEncoding
	}
	return nil
}
