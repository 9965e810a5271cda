package config

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"enigma/internal/failure"
	"enigma/internal/rotor"
)

// cycleToken matches one whitespace-free run of cycles, e.g. "(AB)(CD)".
var cycleToken = regexp.MustCompile(`^(\([^*()]*\))+$`)

// ParseClassic reads the classic text format: the alphabet on the first
// line, then the slot and pawl counts, then rotor descriptors of the form
// NAME TYPE[NOTCHES] (CYCLE)... where TYPE is M, N or R. A descriptor's
// cycles may continue onto following lines.
func ParseClassic(text string) (*Config, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var first string
	for sc.Scan() {
		if first = strings.TrimSpace(sc.Text()); first != "" {
			break
		}
	}
	if first == "" {
		return nil, failure.Invalid("config", "missing alphabet")
	}
	if strings.ContainsAny(first, " \t") {
		return nil, failure.Invalid("config", "alphabet line %q contains whitespace", first)
	}

	var tokens []string
	for sc.Scan() {
		tokens = append(tokens, strings.Fields(sc.Text())...)
	}
	if err := sc.Err(); err != nil {
		return nil, failure.Invalid("config", "read: %v", err)
	}
	if len(tokens) < 2 {
		return nil, failure.Invalid("config", "configuration truncated: missing slot and pawl counts")
	}
	slots, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, failure.Invalid("config", "slot count %q is not a number", tokens[0])
	}
	pawls, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, failure.Invalid("config", "pawl count %q is not a number", tokens[1])
	}

	c := &Config{Alphabet: first, Slots: slots, Pawls: pawls}
	rest := tokens[2:]
	for len(rest) > 0 {
		spec, n, err := parseRotor(rest)
		if err != nil {
			return nil, err
		}
		c.Rotors = append(c.Rotors, spec)
		rest = rest[n:]
	}
	return c, nil
}

// parseRotor reads one descriptor from the front of tokens and reports how
// many tokens it consumed.
func parseRotor(tokens []string) (RotorSpec, int, error) {
	name := tokens[0]
	if strings.HasPrefix(name, "(") {
		return RotorSpec{}, 0, failure.Invalid("config", "cycle %q without a rotor name", name)
	}
	if len(tokens) < 2 {
		return RotorSpec{}, 0, failure.Invalid("config", "bad rotor description for %s: missing type", name)
	}
	typ := tokens[1]
	kind, err := rotor.ParseKind(typ[:1])
	if err != nil {
		return RotorSpec{}, 0, failure.Invalid("config", "rotor %s: unknown type %q", name, typ)
	}
	spec := RotorSpec{Name: name, Kind: kind, Notches: typ[1:]}

	n := 2
	var cycles []string
	for n < len(tokens) && strings.HasPrefix(tokens[n], "(") {
		if !cycleToken.MatchString(tokens[n]) {
			return RotorSpec{}, 0, failure.Invalid("config", "rotor %s: malformed cycle %q", name, tokens[n])
		}
		cycles = append(cycles, tokens[n])
		n++
	}
	spec.Cycles = strings.Join(cycles, " ")
	return spec, n, nil
}

// Classic renders c in the classic text format.
func (c *Config) Classic() string {
	var b strings.Builder
	b.WriteString(c.Alphabet)
	b.WriteString("\n ")
	b.WriteString(strconv.Itoa(c.Slots))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(c.Pawls))
	b.WriteByte('\n')
	for _, r := range c.Rotors {
		b.WriteString(" ")
		b.WriteString(r.Name)
		b.WriteByte(' ')
		b.WriteString(r.Kind.Tag())
		b.WriteString(r.Notches)
		if r.Cycles != "" {
			b.WriteByte(' ')
			b.WriteString(r.Cycles)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
