package validator

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Username validation errors
var (
	ErrUsernameLength   = errors.New("username must be between 3 and 13 characters")
	ErrUsernameFormat   = errors.New("username may only contain letters, numbers, and underscores")
	ErrUsernameReserved = errors.New("username is reserved")
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 13
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// reservedUsernames collide with top-level routes of the web client, or with
// static segments under /users ("me" is already below the minimum length).
var reservedUsernames = []string{"explore", "upload", "home", "search"}

// ValidateUsernameFormat checks length and character set.
func ValidateUsernameFormat(username string) error {
	if n := len(username); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrUsernameLength
	}
	if !usernameRegex.MatchString(username) {
		return ErrUsernameFormat
	}
	return nil
}

// IsReservedUsername compares case-insensitively.
func IsReservedUsername(username string) bool {
	return slices.Contains(reservedUsernames, strings.ToLower(username))
}

// RuneLengthBetween reports whether s has between min and max characters.
func RuneLengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
