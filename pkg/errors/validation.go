package errors

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// maxModelIDLength bounds model IDs; they end up in file names and DB keys.
const maxModelIDLength = 128

// modelIDRegex matches model IDs: letters, digits, dot, dash and underscore.
var modelIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateModelID validates a model ID for safety and correctness.
// It rejects IDs that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateModelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "model ID cannot be empty")
	}

	if len(id) > maxModelIDLength {
		return New(ErrCodeInvalidInput, "model ID too long (max %d characters)", maxModelIDLength)
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "model ID contains invalid control characters")
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "model ID cannot contain path traversal sequences (..)")
	}

	if !modelIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid model ID: %q", id)
	}

	return nil
}

// ParseHandle parses an entity handle. Both "42" and "#42" are accepted.
// Zero is not a valid handle.
func ParseHandle(s string) (uint32, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if raw == "" {
		return 0, New(ErrCodeInvalidInput, "handle cannot be empty")
	}
	h, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "invalid handle: %q", s)
	}
	if h == 0 {
		return 0, New(ErrCodeInvalidInput, "handle must be positive")
	}
	return uint32(h), nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
