package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	colorRe    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidateUsername trims and checks the username shape. Returns the
// normalized value.
func ValidateUsername(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("username", "is required")
	}
	if n := utf8.RuneCountInString(v); n < 3 || n > 30 {
		return "", invalid("username", "must be between 3 and 30 characters")
	}
	if !usernameRe.MatchString(v) {
		return "", invalid("username", "may only contain letters, numbers and underscores")
	}
	return v, nil
}

// ValidateEmail trims, lowercases and checks the address shape.
func ValidateEmail(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", invalid("email", "is required")
	}
	if !emailRe.MatchString(v) {
		return "", invalid("email", "is not a valid address")
	}
	return v, nil
}

// ValidatePassword checks the plaintext before it is ever hashed.
func ValidatePassword(v string) error {
	if v == "" {
		return invalid("password", "is required")
	}
	if len(v) < 8 {
		return invalid("password", "must be at least 8 characters long")
	}
	return nil
}

func ValidateFolderName(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("folder name", "is required")
	}
	if utf8.RuneCountInString(v) > 25 {
		return "", invalid("folder name", "must be at most 25 characters")
	}
	return v, nil
}

// ValidateFolderColor checks the #rrggbb shape and normalizes to
// lowercase.
func ValidateFolderColor(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("folder color", "is required")
	}
	if !colorRe.MatchString(v) {
		return "", invalid("folder color", "must be a # followed by 6 hex digits")
	}
	return strings.ToLower(v), nil
}

func ValidateNoteTitle(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("title", "is required")
	}
	if utf8.RuneCountInString(v) > 100 {
		return "", invalid("title", "must be at most 100 characters")
	}
	return v, nil
}

func ValidateTagName(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("tag name", "is required")
	}
	if utf8.RuneCountInString(v) > 50 {
		return "", invalid("tag name", "must be at most 50 characters")
	}
	return v, nil
}
