// Package rotor models the wired wheels of the machine: reflectors, fixed
// rotors and moving rotors with notches.
package rotor

import (
	"strings"

	"enigma/internal/alphabet"
	"enigma/internal/failure"
	"enigma/internal/permutation"
)

// Kind discriminates the rotor variants. The zero Kind is invalid, so a
// descriptor that omits its kind is caught rather than read as Moving.
type Kind int

const (
	Moving    Kind = iota + 1 // advances and carries via notches
	Fixed                 // settable, never advances
	Reflector             // slot 0 only, setting always 0
)

var kindNames = map[Kind]string{
	Moving:    "moving",
	Fixed:     "fixed",
	Reflector: "reflector",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Tag returns the one-letter type tag used in configuration files.
func (k Kind) Tag() string {
	switch k {
	case Moving:
		return "M"
	case Fixed:
		return "N"
	case Reflector:
		return "R"
	}
	return "?"
}

// ParseKind accepts either a type tag (M, N, R) or a kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "moving":
		return Moving, nil
	case "n", "fixed":
		return Fixed, nil
	case "r", "reflector":
		return Reflector, nil
	}
	return 0, failure.Invalid("rotor", "unknown rotor type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, failure.Invalid("rotor", "cannot marshal kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rotor is a permutation mounted on a wheel. The wiring is fixed; the
// setting rotates the wheel relative to the machine frame and the ring
// rotates the wiring relative to the wheel's lettering.
type Rotor struct {
	name    string
	kind    Kind
	perm    *permutation.Permutation
	notches []int
	setting int
	ring    int
}

// NewMoving returns a moving rotor whose notches are the alphabet symbols in notches.
func NewMoving(name string, perm *permutation.Permutation, notches string) (*Rotor, error) {
	r := &Rotor{name: name, kind: Moving, perm: perm}
	alpha := perm.Alphabet()
	for _, c := range notches {
		i, err := alpha.Index(c)
		if err != nil {
			return nil, failure.Invalid("rotor", "rotor %s: notch %q not in alphabet", name, c)
		}
		r.notches = append(r.notches, i)
	}
	return r, nil
}

// NewFixed returns a rotor that can be set but never advances.
func NewFixed(name string, perm *permutation.Permutation) *Rotor {
	return &Rotor{name: name, kind: Fixed, perm: perm}
}

// NewReflector returns a reflector.
func NewReflector(name string, perm *permutation.Permutation) *Rotor {
	return &Rotor{name: name, kind: Reflector, perm: perm}
}

// New builds a rotor of the given kind. notches is ignored unless kind is Moving.
func New(name string, kind Kind, perm *permutation.Permutation, notches string) (*Rotor, error) {
	switch kind {
	case Moving:
		return NewMoving(name, perm, notches)
	case Fixed:
		return NewFixed(name, perm), nil
	case Reflector:
		return NewReflector(name, perm), nil
	}
	return nil, failure.Invalid("rotor", "rotor %s: unknown kind %d", name, int(kind))
}

// Name returns the catalog name, e.g. "III".
func (r *Rotor) Name() string { return r.name }

// Kind returns the rotor variant.
func (r *Rotor) Kind() Kind { return r.kind }

// Permutation returns the wiring at setting and ring 0.
func (r *Rotor) Permutation() *permutation.Permutation { return r.perm }

// Alphabet returns the alphabet of the wiring.
func (r *Rotor) Alphabet() *alphabet.Alphabet { return r.perm.Alphabet() }

// Size returns the alphabet size.
func (r *Rotor) Size() int { return r.perm.Size() }

// Rotates reports whether the rotor can be advanced by a pawl.
func (r *Rotor) Rotates() bool { return r.kind == Moving }

// Reflecting reports whether the rotor is a reflector.
func (r *Rotor) Reflecting() bool { return r.kind == Reflector }

// Notches returns the notch symbols in configuration order.
func (r *Rotor) Notches() string {
	var b strings.Builder
	for _, n := range r.notches {
		b.WriteRune(r.Alphabet().MustSymbol(n))
	}
	return b.String()
}

// AtNotch reports whether the current setting is one of the notches.
func (r *Rotor) AtNotch() bool {
	for _, n := range r.notches {
		if r.setting == n {
			return true
		}
	}
	return false
}

// Setting returns the current position.
func (r *Rotor) Setting() int { return r.setting }

// Set moves the rotor to position i.
func (r *Rotor) Set(i int) error {
	if i < 0 || i >= r.Size() {
		return failure.OutOfRange("rotor", "rotor %s: setting %d outside [0, %d)", r.name, i, r.Size())
	}
	if r.kind == Reflector && i != 0 {
		return failure.Invalid("rotor", "reflector %s cannot be set to %d", r.name, i)
	}
	r.setting = i
	return nil
}

// SetSymbol moves the rotor to the position of symbol c.
func (r *Rotor) SetSymbol(c rune) error {
	i, err := r.Alphabet().Index(c)
	if err != nil {
		return failure.Invalid("rotor", "rotor %s: setting %q not in alphabet", r.name, c)
	}
	return r.Set(i)
}

// Ring returns the ring offset.
func (r *Rotor) Ring() int { return r.ring }

// SetRing sets the ring offset to i.
func (r *Rotor) SetRing(i int) error {
	if i < 0 || i >= r.Size() {
		return failure.OutOfRange("rotor", "rotor %s: ring %d outside [0, %d)", r.name, i, r.Size())
	}
	if r.kind == Reflector && i != 0 {
		return failure.Invalid("rotor", "reflector %s has no ring", r.name)
	}
	r.ring = i
	return nil
}

// Advance steps a moving rotor by one position. Advancing any other kind is
// a contract violation and leaves the rotor unchanged.
func (r *Rotor) Advance() error {
	if r.kind != Moving {
		return failure.Invalid("rotor", "%s rotor %s cannot advance", r.kind, r.name)
	}
	r.setting = (r.setting + 1) % r.Size()
	return nil
}

// ConvertForward maps the contact at index p on the right-hand side to the
// contact on the left-hand side, both in the machine frame.
func (r *Rotor) ConvertForward(p int) int {
	shift := r.setting - r.ring
	return r.perm.Wrap(r.perm.Permute(p+shift) - shift)
}

// ConvertBackward is the inverse of ConvertForward.
func (r *Rotor) ConvertBackward(e int) int {
	shift := r.setting - r.ring
	return r.perm.Wrap(r.perm.Invert(e+shift) - shift)
}

// Clone returns an independent rotor with the same wiring, notches,
// setting and ring. The permutation is immutable and shared.
func (r *Rotor) Clone() *Rotor {
	c := *r
	c.notches = append([]int(nil), r.notches...)
	return &c
}

func (r *Rotor) String() string {
	return r.name + " " + r.kind.Tag() + r.Notches() + " " + r.perm.Cycles()
}
