// Package failure defines the error kinds shared by the enigma packages.
//
// Every error produced while building alphabets, permutations, rotors or a
// machine wraps exactly one of the sentinel kinds below, so callers can
// classify it with errors.Is without parsing messages.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration covers malformed alphabets, cycle notation,
	// rotor placement, pawl counts and setting strings.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownIdentifier is returned when a rotor name is not in the catalog.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrIndexOutOfRange is returned for alphabet indices outside [0, size).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidSymbol is returned when a symbol is not part of the alphabet.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Error carries the failing operation and a human readable reason.
type Error struct {
	Kind   error
	Op     string
	Reason string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Kind.Error() + ": " + e.Reason
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Reason
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Invalid returns an ErrInvalidConfiguration error.
func Invalid(op, format string, args ...any) error {
	return newError(ErrInvalidConfiguration, op, format, args...)
}

// Unknown returns an ErrUnknownIdentifier error.
func Unknown(op, format string, args ...any) error {
	return newError(ErrUnknownIdentifier, op, format, args...)
}

// OutOfRange returns an ErrIndexOutOfRange error.
func OutOfRange(op, format string, args ...any) error {
	return newError(ErrIndexOutOfRange, op, format, args...)
}

// Symbol returns an ErrInvalidSymbol error.
func Symbol(op, format string, args ...any) error {
	return newError(ErrInvalidSymbol, op, format, args...)
}
