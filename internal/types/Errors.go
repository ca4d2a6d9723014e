/*

This file contains the error kinds shared by every bridge component.
Callers match on them with errors.Is; details are attached with fmt.Errorf("%w: ...").

*/

package types

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks malformed or out-of-domain arguments. It is returned before any computation starts.
	ErrValidation = errors.New("validation error")
	// ErrDimensionMismatch marks paired sequences of unequal length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrArithmeticDomain marks a division by an exact zero where no safe default exists.
	ErrArithmeticDomain = errors.New("arithmetic domain error")
)

// MissingKeysError is returned when a pool configuration lacks required keys.
// Keys are sorted.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return ErrValidation.Error() + ": missing required keys: " + strings.Join(e.Keys, ", ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *MissingKeysError) Unwrap() error {
	return ErrValidation
}
