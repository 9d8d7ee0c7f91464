package validation

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// Field limits shared by registration and profile updates.
const (
	MaxNameLength        = 50
	MaxTweetLength       = 140
	MaxIntroductionChars = 160
)

// emailPattern matches local-part "@" domain "." TLD, case-insensitive.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)

// IsValidEmail checks an address against the structural email pattern
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsBlank reports whether a string is empty after trimming whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateName checks a display name for presence and length
func ValidateName(name string) error {
	if IsBlank(name) {
		return errors.New("name is required")
	}
	if len([]rune(name)) > MaxNameLength {
		return errors.New("name too long (max 50 characters)")
	}
	return nil
}

// ValidateTweetDescription checks tweet body presence and length
func ValidateTweetDescription(description string) error {
	if IsBlank(description) {
		return errors.New("description is required")
	}
	if len([]rune(description)) > MaxTweetLength {
		return errors.New("description too long (max 140 characters)")
	}
	return nil
}

// IsValidImageFile checks if a filename has a valid image extension
func IsValidImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	validExts := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	for _, validExt := range validExts {
		if ext == validExt {
			return true
		}
	}
	return false
}
