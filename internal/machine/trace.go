package machine

import (
	"fmt"
	"io"
)

// Step describes one converted symbol.
type Step struct {
	Positions string // rotor windows after stepping
	Input     rune
	Plugged   rune // after the first plugboard pass
	Output    rune
}

// Tracer receives a Step for every symbol a machine converts.
type Tracer interface {
	Trace(Step)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(Step)

func (f TracerFunc) Trace(s Step) { f(s) }

// LineTracer writes one line per symbol: "[AXLE] H -> X -> Q".
type LineTracer struct {
	W io.Writer
}

func (l LineTracer) Trace(s Step) {
	fmt.Fprintf(l.W, "[%s] %c -> %c -> %c\n", s.Positions, s.Input, s.Plugged, s.Output)
}
