package format

import (
	"fmt"

	"enigma/internal/rotor"
)

// RotorTable lists every rotor of c: name, kind, notches, wiring and whether
// the wiring has fixed points. Reflectors come first.
func RotorTable(c *rotor.Catalog, m Mode, cyclesWidth int) string {
	tb := NewTable(m)
	tb.Header("Name", "Kind", "Notches", "Cycles", "Derangement")
	for _, name := range c.Sorted() {
		r, _ := c.Lookup(name)
		cycles := r.Permutation().Cycles()
		if cyclesWidth > 0 {
			cycles = Truncate(cycles, cyclesWidth)
		}
		tb.Row(r.Name(), r.Kind().String(), r.Notches(), cycles, BoolMark(r.Permutation().Derangement()))
	}
	counts := c.Count()
	tb.Footer("", "", "", summary(counts), "")
	tb.Columns(ColumnConfig{Number: 5, Align: AlignCenter})
	return tb.String()
}

func summary(counts map[rotor.Kind]int) string {
	return fmt.Sprintf("%d reflectors, %d fixed, %d moving",
		counts[rotor.Reflector], counts[rotor.Fixed], counts[rotor.Moving])
}
