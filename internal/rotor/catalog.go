package rotor

import (
	"sort"

	"enigma/internal/failure"
)

// Catalog holds the available rotors by name. It is filled once while a
// configuration loads and is read-only afterwards, so several machines may
// share it. Machines bind clones, never the catalog's own rotors.
type Catalog struct {
	byName map[string]*Rotor
	order  []string
}

// NewCatalog builds a catalog from rotors. Names must be unique.
func NewCatalog(rotors ...*Rotor) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Rotor, len(rotors))}
	for _, r := range rotors {
		if err := c.add(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(r *Rotor) error {
	if r.Name() == "" {
		return failure.Invalid("catalog", "rotor without a name")
	}
	if _, dup := c.byName[r.Name()]; dup {
		return failure.Invalid("catalog", "duplicate rotor name %q", r.Name())
	}
	if len(c.order) > 0 {
		first := c.byName[c.order[0]]
		if first.Alphabet() != r.Alphabet() {
			return failure.Invalid("catalog", "rotor %q uses a different alphabet", r.Name())
		}
	}
	c.byName[r.Name()] = r
	c.order = append(c.order, r.Name())
	return nil
}

// Lookup returns the catalog rotor with exactly the given name.
func (c *Catalog) Lookup(name string) (*Rotor, error) {
	r, ok := c.byName[name]
	if !ok {
		return nil, failure.Unknown("catalog", "no rotor named %q", name)
	}
	return r, nil
}

// Len returns the number of rotors.
func (c *Catalog) Len() int { return len(c.order) }

// Names returns the rotor names in load order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Rotors returns the catalog rotors in load order. Callers must not mutate them.
func (c *Catalog) Rotors() []*Rotor {
	out := make([]*Rotor, len(c.order))
	for i, n := range c.order {
		out[i] = c.byName[n]
	}
	return out
}

// Count returns how many rotors of each kind the catalog holds.
func (c *Catalog) Count() map[Kind]int {
	m := make(map[Kind]int)
	for _, r := range c.byName {
		m[r.kind]++
	}
	return m
}

// Sorted returns the names ordered by kind (reflectors first) then name.
func (c *Catalog) Sorted() []string {
	names := c.Names()
	rank := map[Kind]int{Reflector: 0, Fixed: 1, Moving: 2}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := c.byName[names[i]], c.byName[names[j]]
		if rank[a.kind] != rank[b.kind] {
			return rank[a.kind] < rank[b.kind]
		}
		return a.name < b.name
	})
	return names
}
