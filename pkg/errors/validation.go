package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds project and catalog display names.
const maxNameLength = 128

// ValidateName validates a display name (project, module or processor name).
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}

// idRegex matches catalog identifiers produced by slug generation.
var idRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateID validates a catalog identifier such as "arakur-p29".
// IDs are used as file names and cache key components, so they are
// restricted to lowercase letters, digits and dashes.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > maxNameLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxNameLength)
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid id: %q", id)
	}
	return nil
}
