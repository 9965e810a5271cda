// Package session runs a message stream through a machine: setup lines
// reconfigure it, every other line is converted and written in groups.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"enigma/internal/config"
	"enigma/internal/failure"
	"enigma/internal/format"
	"enigma/internal/logging"
	"enigma/internal/machine"
)

// Processor converts one input stream with one machine.
type Processor struct {
	machine   *machine.Machine
	groupSize int
	logger    *slog.Logger

	configured bool
	lines      int
	symbols    int
}

// Option configures a Processor.
type Option func(*Processor)

// WithGroupSize sets the output group length; 0 disables grouping.
func WithGroupSize(n int) Option {
	return func(p *Processor) { p.groupSize = n }
}

// New returns a Processor driving m. m does not need rotors yet; the first
// setup line in the stream inserts them.
func New(m *machine.Machine, opts ...Option) *Processor {
	p := &Processor{
		machine:   m,
		groupSize: format.GroupSize,
		logger:    logging.New("session"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run reads r line by line and writes converted messages to w. A line
// starting with '*' reconfigures the machine; the first non-blank line must
// be one. Blank lines are copied through as blank lines.
func (p *Processor) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	bw := bufio.NewWriter(w)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.lines++
		if err := p.line(sc.Text(), bw); err != nil {
			return fmt.Errorf("line %d: %w", p.lines, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	p.logger.Debug("stream done", "lines", p.lines, "symbols", p.symbols)
	return nil
}

func (p *Processor) line(text string, w io.Writer) error {
	if config.IsSetupLine(text) {
		s, err := config.ParseSetup(text, p.machine.NumRotors())
		if err != nil {
			return err
		}
		if err := s.Apply(p.machine); err != nil {
			return err
		}
		p.configured = true
		p.logger.Debug("machine configured", "rotors", strings.Join(s.Rotors, " "), "positions", s.Positions)
		return nil
	}

	msg := stripSpace(text)
	if msg == "" {
		_, err := io.WriteString(w, "\n")
		return err
	}
	if !p.configured {
		return failure.Invalid("session", "message before the first setup line")
	}
	out, err := p.machine.ConvertString(msg)
	if err != nil {
		return err
	}
	p.symbols += len(out)
	_, err = io.WriteString(w, format.Groups(out, p.groupSize)+"\n")
	return err
}

// Lines returns the number of input lines read so far.
func (p *Processor) Lines() int { return p.lines }

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
