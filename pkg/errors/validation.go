package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxFileNameLength bounds the display name of a stored diagram file.
const MaxFileNameLength = 255

// ValidateFileName validates the display name of a stored diagram file.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 255 characters
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "file name cannot be empty")
	}

	if len(name) > MaxFileNameLength {
		return New(ErrCodeInvalidName, "file name too long (max %d characters)", MaxFileNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "file name contains invalid control characters")
		}
	}

	return nil
}

// iconNameRegex matches icon asset names: letters, digits, dash, underscore
// and dot, never starting with a dot.
var iconNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// ValidateIconName validates an icon identifier before it is turned into a
// file path. It rejects anything that could escape the icon directory.
func ValidateIconName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "icon name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "icon name too long (max 128 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "icon name cannot contain path traversal sequences (..)")
	}

	if !iconNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid icon name: %q", name)
	}

	return nil
}

// ValidateSource checks a DSL source against a byte limit.
// A limit of zero or less disables the check. The DSL itself is never
// rejected for its content; only its size is bounded.
func ValidateSource(src string, maxBytes int) error {
	if maxBytes > 0 && len(src) > maxBytes {
		return New(ErrCodeSourceTooLarge, "source too large (%d bytes, max %d)", len(src), maxBytes)
	}
	if strings.ContainsRune(src, '\x00') {
		return New(ErrCodeInvalidInput, "source contains null bytes")
	}
	return nil
}
