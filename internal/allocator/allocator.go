// Package allocator derives sequential, fixed-width employee identifiers.
package allocator

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// Width is the number of digits in an employee identifier.
	Width = 5
	// MaxValue is the largest number representable in Width digits.
	MaxValue = 99999
	// First is the identifier assigned when the store is empty.
	First = "00001"
)

var (
	// ErrAllocationOverflow signals that the identifier space is exhausted.
	ErrAllocationOverflow = errors.New("employee id allocation overflow")
	// ErrInvalidID signals a value that is not a Width-digit string.
	ErrInvalidID = errors.New("invalid employee id")
)

// Next returns the identifier following max. When found is false the store
// holds no records and First is returned.
func Next(max string, found bool) (string, error) {
	if !found {
		return First, nil
	}
	n, err := Parse(max)
	if err != nil {
		return "", fmt.Errorf("current max %q: %w", max, err)
	}
	return Format(n + 1)
}

// Format renders n as a zero-padded identifier.
func Format(n int) (string, error) {
	if n > MaxValue {
		return "", fmt.Errorf("%w: %d exceeds %d digits", ErrAllocationOverflow, n, Width)
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative value %d", ErrInvalidID, n)
	}
	return fmt.Sprintf("%0*d", Width, n), nil
}

// Parse converts an identifier to its integer value. Unpadded values are
// accepted as long as they fit in Width digits.
func Parse(id string) (int, error) {
	if id == "" || len(id) > Width {
		return 0, ErrInvalidID
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return 0, ErrInvalidID
		}
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, ErrInvalidID
	}
	return n, nil
}

// Valid reports whether id is in canonical form: exactly Width ASCII digits.
func Valid(id string) bool {
	if len(id) != Width {
		return false
	}
	_, err := Parse(id)
	return err == nil
}
