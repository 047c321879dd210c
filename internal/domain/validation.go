package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation constants
const (
	IDNumberLength    = 11
	MaxFullNameLength = 255

	// DayLayout is the layout of daily bucket keys.
	DayLayout = "2006-01-02"
)

var idNumberRegex = regexp.MustCompile(`^[0-9]{11}$`)

// ValidateIDNumber validates a national identification number.
func ValidateIDNumber(id string) error {
	if !idNumberRegex.MatchString(id) {
		return fmt.Errorf("%w: got %q", ErrInvalidIdentifier, id)
	}
	return nil
}

// NormalizeIDNumber strips the punctuation people usually type in ID numbers.
func NormalizeIDNumber(id string) string {
	return strings.NewReplacer(".", "", "-", "", " ", "").Replace(strings.TrimSpace(id))
}

// ValidateFullName validates a client's full name
func ValidateFullName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxFullNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxFullNameLength)
	}

	return nil
}

// DayKey returns the calendar-day bucket of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
