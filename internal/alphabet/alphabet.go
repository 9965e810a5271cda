// Package alphabet maps the symbols a machine operates on to the indices
// 0..Size()-1 and back.
package alphabet

import (
	"unicode"

	"enigma/internal/failure"
)

// Reserved symbols cannot be alphabet members: they delimit cycle notation
// and setup lines.
const Reserved = "*()"

// Upper is the default 26-letter alphabet.
const Upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Alphabet is an immutable ordered set of distinct symbols. It is safe to
// share between permutations, rotors and machines.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// New builds an alphabet from chars. The k-th symbol of chars has index k.
// Whitespace is rejected: cycle notation and messages treat it as a separator.
func New(chars string) (*Alphabet, error) {
	a := &Alphabet{index: make(map[rune]int)}
	for _, r := range chars {
		if isReserved(r) {
			return nil, failure.Invalid("alphabet", "reserved symbol %q", r)
		}
		if unicode.IsSpace(r) {
			return nil, failure.Invalid("alphabet", "whitespace symbol %q", r)
		}
		if _, dup := a.index[r]; dup {
			return nil, failure.Invalid("alphabet", "repeated symbol %q", r)
		}
		a.index[r] = len(a.symbols)
		a.symbols = append(a.symbols, r)
	}
	if len(a.symbols) == 0 {
		return nil, failure.Invalid("alphabet", "no symbols")
	}
	return a, nil
}

// MustNew is like New but panics on error. Intended for fixed alphabets.
func MustNew(chars string) *Alphabet {
	a, err := New(chars)
	if err != nil {
		panic(err)
	}
	return a
}

func isReserved(r rune) bool {
	for _, c := range Reserved {
		if r == c {
			return true
		}
	}
	return false
}

// Size returns the number of symbols.
func (a *Alphabet) Size() int { return len(a.symbols) }

// Contains reports whether r is a symbol of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Index returns the index of r.
func (a *Alphabet) Index(r rune) (int, error) {
	i, ok := a.index[r]
	if !ok {
		return 0, failure.Symbol("alphabet", "%q not in alphabet", r)
	}
	return i, nil
}

// Symbol returns the symbol at index i.
func (a *Alphabet) Symbol(i int) (rune, error) {
	if i < 0 || i >= len(a.symbols) {
		return 0, failure.OutOfRange("alphabet", "index %d outside [0, %d)", i, len(a.symbols))
	}
	return a.symbols[i], nil
}

// String returns the symbols in index order.
func (a *Alphabet) String() string { return string(a.symbols) }

// MustSymbol returns the symbol at i and panics when i is out of range. Use
// only with indices produced by a permutation or rotor over this alphabet.
func (a *Alphabet) MustSymbol(i int) rune {
	if i < 0 || i >= len(a.symbols) {
		panic(failure.OutOfRange("alphabet", "index %d outside [0, %d)", i, len(a.symbols)))
	}
	return a.symbols[i]
}
