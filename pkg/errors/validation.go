package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds pair and job names.
const maxNameLength = 256

// ValidateName validates a pair or job name before it is used in cache keys,
// log lines and stored records.
//
// The validation rules are intentionally conservative:
//   - Empty names are allowed (the pair is anonymous)
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//   - No leading or trailing whitespace
func ValidateName(name string) error {
	if name == "" {
		return nil
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidInput, "name cannot start or end with whitespace")
	}

	return nil
}

// ValidateLength checks a sequence length against an upper bound.
// A limit of zero or less disables the check.
func ValidateLength(n, limit int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "negative sequence length %d", n)
	}
	if limit > 0 && n > limit {
		return New(ErrCodeInvalidInput, "sequence too long: %d elements (max %d)", n, limit)
	}
	return nil
}

// ValidateWorkers checks a batch concurrency setting.
func ValidateWorkers(workers int) error {
	if workers < 1 {
		return New(ErrCodeInvalidInput, "workers must be at least 1, got %d", workers)
	}
	if workers > 1024 {
		return New(ErrCodeInvalidInput, "workers must be at most 1024, got %d", workers)
	}
	return nil
}
