// Package machine assembles rotors, a reflector and a plugboard into a
// working cipher machine and implements the stepping mechanism, including
// the double step of the middle rotor.
package machine

import (
	"strings"

	"enigma/internal/alphabet"
	"enigma/internal/failure"
	"enigma/internal/permutation"
	"enigma/internal/rotor"
)

// Machine is a rotor machine with a fixed number of slots and pawls.
// Slot 0 holds the reflector and slot NumRotors()-1 the fast rotor.
// A Machine is not safe for concurrent use; its state advances with every
// converted symbol.
type Machine struct {
	alpha     *alphabet.Alphabet
	numRotors int
	pawls     int
	catalog   *rotor.Catalog
	rotors    []*rotor.Rotor
	plugboard *permutation.Permutation
	tracer    Tracer

	// per-keypress scratch
	atNotch []bool
	turned  []bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithTracer reports every converted symbol to t.
func WithTracer(t Tracer) Option {
	return func(m *Machine) { m.tracer = t }
}

// New returns a machine over alpha with numRotors slots (including the
// reflector) and pawls moving slots, drawing rotors from catalog. The
// plugboard starts as the identity.
func New(alpha *alphabet.Alphabet, numRotors, pawls int, catalog *rotor.Catalog, opts ...Option) (*Machine, error) {
	if numRotors < 2 {
		return nil, failure.Invalid("machine", "need at least 2 rotor slots, got %d", numRotors)
	}
	if pawls < 0 || pawls >= numRotors {
		return nil, failure.Invalid("machine", "pawls must be in [0, %d), got %d", numRotors, pawls)
	}
	if catalog == nil {
		return nil, failure.Invalid("machine", "no rotor catalog")
	}
	for _, r := range catalog.Rotors() {
		if r.Alphabet() != alpha {
			return nil, failure.Invalid("machine", "rotor %s uses a different alphabet", r.Name())
		}
	}
	m := &Machine{
		alpha:     alpha,
		numRotors: numRotors,
		pawls:     pawls,
		catalog:   catalog,
		plugboard: permutation.Identity(alpha),
		atNotch:   make([]bool, numRotors),
		turned:    make([]bool, numRotors),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Alphabet returns the alphabet shared by the catalog and plugboard.
func (m *Machine) Alphabet() *alphabet.Alphabet { return m.alpha }

// NumRotors returns the slot count, reflector included.
func (m *Machine) NumRotors() int { return m.numRotors }

// NumPawls returns how many rightmost slots hold moving rotors.
func (m *Machine) NumPawls() int { return m.pawls }

// Catalog returns the rotors available to InsertRotors.
func (m *Machine) Catalog() *rotor.Catalog { return m.catalog }

// Ready reports whether rotors have been inserted.
func (m *Machine) Ready() bool { return m.rotors != nil }

// Rotor returns the rotor in slot k, or nil before InsertRotors.
func (m *Machine) Rotor(k int) *rotor.Rotor {
	if m.rotors == nil || k < 0 || k >= m.numRotors {
		return nil
	}
	return m.rotors[k]
}

// Plugboard returns the current plugboard permutation.
func (m *Machine) Plugboard() *permutation.Permutation { return m.plugboard }

// InsertRotors binds the named catalog rotors to the slots, names[0] being
// the reflector. The machine holds its own copies, so the catalog is never
// mutated. On error the previous binding is kept.
func (m *Machine) InsertRotors(names []string) error {
	if len(names) != m.numRotors {
		return failure.Invalid("insert rotors", "need %d rotor names, got %d", m.numRotors, len(names))
	}
	firstMoving := m.numRotors - m.pawls
	bound := make([]*rotor.Rotor, m.numRotors)
	used := make(map[string]bool, len(names))
	for i, name := range names {
		r, err := m.catalog.Lookup(name)
		if err != nil {
			return failure.Unknown("insert rotors", "slot %d: no rotor named %q", i, name)
		}
		if used[name] {
			return failure.Invalid("insert rotors", "rotor %s used more than once", name)
		}
		used[name] = true

		switch {
		case i == 0 && !r.Reflecting():
			return failure.Invalid("insert rotors", "slot 0 needs a reflector, %s is %s", name, r.Kind())
		case i > 0 && r.Reflecting():
			return failure.Invalid("insert rotors", "reflector %s in slot %d", name, i)
		case i >= firstMoving && !r.Rotates():
			return failure.Invalid("insert rotors", "slot %d needs a moving rotor, %s is %s", i, name, r.Kind())
		case i > 0 && i < firstMoving && r.Rotates():
			return failure.Invalid("insert rotors", "moving rotor %s in non-moving slot %d (machine has %d pawls)", name, i, m.pawls)
		}
		bound[i] = r.Clone()
	}
	m.rotors = bound
	return nil
}

// SetRotors sets the positions of slots 1..NumRotors()-1 from setting, whose
// first symbol belongs to the leftmost non-reflector rotor. Nothing changes
// if setting is invalid.
func (m *Machine) SetRotors(setting string) error {
	idx, err := m.slotIndices("set rotors", setting)
	if err != nil {
		return err
	}
	for i, v := range idx {
		if err := m.rotors[i+1].Set(v); err != nil {
			return err
		}
	}
	return nil
}

// SetRings sets the ring offsets of slots 1..NumRotors()-1, same shape as SetRotors.
func (m *Machine) SetRings(rings string) error {
	idx, err := m.slotIndices("set rings", rings)
	if err != nil {
		return err
	}
	for i, v := range idx {
		if err := m.rotors[i+1].SetRing(v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) slotIndices(op, s string) ([]int, error) {
	if !m.Ready() {
		return nil, failure.Invalid(op, "no rotors inserted")
	}
	runes := []rune(s)
	if len(runes) != m.numRotors-1 {
		return nil, failure.Invalid(op, "%q has %d symbols, need %d", s, len(runes), m.numRotors-1)
	}
	idx := make([]int, len(runes))
	for i, r := range runes {
		v, err := m.alpha.Index(r)
		if err != nil {
			return nil, failure.Invalid(op, "%q: symbol %q not in alphabet", s, r)
		}
		idx[i] = v
	}
	return idx, nil
}

// SetPlugboard installs p as the plugboard.
func (m *Machine) SetPlugboard(p *permutation.Permutation) error {
	if p == nil {
		return failure.Invalid("set plugboard", "nil permutation")
	}
	if p.Alphabet() != m.alpha {
		return failure.Invalid("set plugboard", "plugboard uses a different alphabet")
	}
	m.plugboard = p
	return nil
}

// Positions returns the symbols currently showing in the windows of slots
// 1..NumRotors()-1, leftmost first.
func (m *Machine) Positions() string {
	if !m.Ready() {
		return ""
	}
	var b strings.Builder
	for _, r := range m.rotors[1:] {
		b.WriteRune(m.alpha.MustSymbol(r.Setting()))
	}
	return b.String()
}

// Convert advances the rotors and returns the encoding of index c. The
// machine must be Ready.
func (m *Machine) Convert(c int) int {
	m.advance()
	in := m.plugboard.Wrap(c)
	c = m.plugboard.Permute(in)
	plugged := c
	for i := m.numRotors - 1; i >= 0; i-- {
		c = m.rotors[i].ConvertForward(c)
	}
	for i := 1; i < m.numRotors; i++ {
		c = m.rotors[i].ConvertBackward(c)
	}
	c = m.plugboard.Permute(c)
	if m.tracer != nil {
		m.tracer.Trace(Step{
			Positions: m.Positions(),
			Input:     m.alpha.MustSymbol(in),
			Plugged:   m.alpha.MustSymbol(plugged),
			Output:    m.alpha.MustSymbol(c),
		})
	}
	return c
}

// ConvertSymbol converts a single symbol.
func (m *Machine) ConvertSymbol(r rune) (rune, error) {
	if !m.Ready() {
		return 0, failure.Invalid("convert", "no rotors inserted")
	}
	i, err := m.alpha.Index(r)
	if err != nil {
		return 0, err
	}
	return m.alpha.MustSymbol(m.Convert(i)), nil
}

// ConvertString converts msg symbol by symbol. Every symbol is checked
// against the alphabet before the rotors move, so an invalid message leaves
// the machine untouched.
func (m *Machine) ConvertString(msg string) (string, error) {
	if !m.Ready() {
		return "", failure.Invalid("convert", "no rotors inserted")
	}
	idx := make([]int, 0, len(msg))
	for _, r := range msg {
		i, err := m.alpha.Index(r)
		if err != nil {
			return "", err
		}
		idx = append(idx, i)
	}
	var b strings.Builder
	b.Grow(len(msg))
	for _, i := range idx {
		b.WriteRune(m.alpha.MustSymbol(m.Convert(i)))
	}
	return b.String(), nil
}

// advance performs one keypress worth of stepping. Notch states are
// sampled before any rotor moves. A rotor at its notch pushes its left
// neighbour, and unless it is the fast rotor it is pushed along with it;
// no rotor moves more than once per keypress.
func (m *Machine) advance() {
	if m.pawls == 0 {
		return
	}
	last := m.numRotors - 1
	first := m.numRotors - m.pawls
	for i := first; i <= last; i++ {
		m.atNotch[i] = m.rotors[i].AtNotch()
		m.turned[i] = false
	}
	for i := last; i > first; i-- {
		if !m.atNotch[i] {
			continue
		}
		if m.rotors[i-1].Rotates() && !m.turned[i-1] {
			m.turn(i - 1)
			if i != last && !m.turned[i] {
				m.turn(i)
			}
		}
	}
	if !m.turned[last] {
		m.turn(last)
	}
}

func (m *Machine) turn(i int) {
	// InsertRotors guarantees slots >= first are moving rotors.
	_ = m.rotors[i].Advance()
	m.turned[i] = true
}
