// Package permutation implements permutations of alphabet indices written in
// cycle notation, e.g. "(AELTPHQXRU) (BKNW) (CMOY)".
package permutation

import (
	"strings"
	"unicode"

	"enigma/internal/alphabet"
	"enigma/internal/failure"
)

// Permutation is an immutable bijection on the indices of an alphabet.
// Symbols not named in any cycle map to themselves.
type Permutation struct {
	alpha   *alphabet.Alphabet
	forward []int
	inverse []int
	cycles  [][]int
}

// New parses cycles against alpha. Characters outside parentheses are
// ignored; each parenthesised group, read left to right, is one cycle.
func New(cycles string, alpha *alphabet.Alphabet) (*Permutation, error) {
	n := alpha.Size()
	p := &Permutation{
		alpha:   alpha,
		forward: make([]int, n),
		inverse: make([]int, n),
	}
	seen := make([]bool, n)

	var (
		cur    []int
		inside bool
	)
	for _, r := range cycles {
		switch {
		case r == '(':
			if inside {
				return nil, failure.Invalid("permutation", "nested '(' in %q", cycles)
			}
			inside, cur = true, nil
		case r == ')':
			if !inside {
				return nil, failure.Invalid("permutation", "unmatched ')' in %q", cycles)
			}
			if len(cur) == 0 {
				return nil, failure.Invalid("permutation", "empty cycle in %q", cycles)
			}
			p.cycles = append(p.cycles, cur)
			inside = false
		case !inside || unicode.IsSpace(r):
			continue
		case r == '*':
			return nil, failure.Invalid("permutation", "reserved symbol %q in cycle", r)
		default:
			i, err := alpha.Index(r)
			if err != nil {
				return nil, failure.Invalid("permutation", "cycle symbol %q not in alphabet %q", r, alpha.String())
			}
			if seen[i] {
				return nil, failure.Invalid("permutation", "symbol %q appears more than once", r)
			}
			seen[i] = true
			cur = append(cur, i)
		}
	}
	if inside {
		return nil, failure.Invalid("permutation", "unterminated cycle in %q", cycles)
	}

	for i := range seen {
		if !seen[i] {
			p.cycles = append(p.cycles, []int{i})
		}
	}
	for _, c := range p.cycles {
		for k, from := range c {
			to := c[(k+1)%len(c)]
			p.forward[from] = to
			p.inverse[to] = from
		}
	}
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(cycles string, alpha *alphabet.Alphabet) *Permutation {
	p, err := New(cycles, alpha)
	if err != nil {
		panic(err)
	}
	return p
}

// Identity returns the permutation that maps every index to itself.
func Identity(alpha *alphabet.Alphabet) *Permutation {
	return MustNew("", alpha)
}

// Size returns the size of the underlying alphabet.
func (p *Permutation) Size() int { return len(p.forward) }

// Alphabet returns the alphabet p permutes.
func (p *Permutation) Alphabet() *alphabet.Alphabet { return p.alpha }

// Wrap reduces i modulo Size() into [0, Size()).
func (p *Permutation) Wrap(i int) int {
	r := i % p.Size()
	if r < 0 {
		r += p.Size()
	}
	return r
}

// Permute returns the successor of i (mod Size()) in its cycle.
func (p *Permutation) Permute(i int) int { return p.forward[p.Wrap(i)] }

// Invert returns the predecessor of i (mod Size()) in its cycle.
func (p *Permutation) Invert(i int) int { return p.inverse[p.Wrap(i)] }

// PermuteSymbol applies Permute to the index of r.
func (p *Permutation) PermuteSymbol(r rune) (rune, error) {
	i, err := p.alpha.Index(r)
	if err != nil {
		return 0, err
	}
	return p.alpha.MustSymbol(p.Permute(i)), nil
}

// InvertSymbol applies Invert to the index of r.
func (p *Permutation) InvertSymbol(r rune) (rune, error) {
	i, err := p.alpha.Index(r)
	if err != nil {
		return 0, err
	}
	return p.alpha.MustSymbol(p.Invert(i)), nil
}

// Derangement reports whether no index maps to itself.
func (p *Permutation) Derangement() bool {
	for _, c := range p.cycles {
		if len(c) == 1 {
			return false
		}
	}
	return true
}

// Involution reports whether p is its own inverse, i.e. every cycle has at
// most two members. Reflectors and plugboards are expected to be involutions.
func (p *Permutation) Involution() bool {
	for _, c := range p.cycles {
		if len(c) > 2 {
			return false
		}
	}
	return true
}

// Cycles renders the non-trivial cycles in canonical notation, each cycle
// starting at its lowest index and the cycles ordered by that index.
func (p *Permutation) Cycles() string {
	var b strings.Builder
	done := make([]bool, p.Size())
	for start := range p.forward {
		if done[start] || p.forward[start] == start {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		for i := start; !done[i]; i = p.forward[i] {
			done[i] = true
			b.WriteRune(p.alpha.MustSymbol(i))
		}
		b.WriteByte(')')
	}
	return b.String()
}
