package errors

import (
	"strings"
	"unicode"
)

// maxTagLength bounds the graph tag stored in a header.
const maxTagLength = 256

// ValidateTag validates a graph tag before it is written into a header.
//
// The validation rules are intentionally conservative:
//   - No empty tags
//   - No control characters (including NUL)
//   - Maximum length of 256 bytes
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidInput, "graph tag cannot be empty")
	}

	if len(tag) > maxTagLength {
		return New(ErrCodeInvalidInput, "graph tag too long (max %d bytes)", maxTagLength)
	}

	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "graph tag contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a source or destination path given on the command
// line or in a batch config.
//
// Validation rules:
//   - Path cannot be empty or whitespace only
//   - No null bytes
//   - Maximum length of 4096 characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains a null byte")
	}

	return nil
}
