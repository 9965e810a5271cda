package format

import "enigma/internal/machine"

// TraceTable collects machine steps and renders them as a table. It
// implements machine.Tracer.
type TraceTable struct {
	steps []machine.Step
}

func (t *TraceTable) Trace(s machine.Step) { t.steps = append(t.steps, s) }

// Len returns the number of recorded steps.
func (t *TraceTable) Len() int { return len(t.steps) }

// Reset drops the recorded steps.
func (t *TraceTable) Reset() { t.steps = t.steps[:0] }

// Render returns one row per converted symbol.
func (t *TraceTable) Render(m Mode) string {
	tb := NewTable(m)
	tb.Header("#", "Rotors", "In", "Plugged", "Out")
	for i, s := range t.steps {
		tb.Row(i+1, s.Positions, string(s.Input), string(s.Plugged), string(s.Output))
	}
	tb.Columns(ColumnConfig{Number: 1, Align: AlignRight})
	return tb.String()
}
