package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxColumnNameLength bounds column names accepted from chart specifications.
const maxColumnNameLength = 256

// ValidateColumnName validates a column name referenced by a chart specification.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Whether the column exists is checked later against the loaded table.
func ValidateColumnName(field, name string) error {
	if name == "" {
		return New(ErrCodeInvalidSpec, "%s column cannot be empty", field)
	}

	if len(name) > maxColumnNameLength {
		return New(ErrCodeInvalidSpec, "%s column name too long (max %d characters)", field, maxColumnNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSpec, "%s column name contains invalid control characters", field)
		}
	}

	return nil
}

// ValidateOutputPath validates an image output path before any rendering work.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must name a file, not a directory (no trailing separator, not "." or "..")
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file: %s", path)
	}

	switch filepath.Base(path) {
	case ".", "..":
		return New(ErrCodeInvalidPath, "output path must name a file: %s", path)
	}

	return nil
}
