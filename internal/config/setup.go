package config

import (
	"strings"

	"enigma/internal/failure"
	"enigma/internal/logging"
	"enigma/internal/machine"
	"enigma/internal/permutation"
)

// Setup is one parsed setup line:
//
//	* B Beta III IV I AXLE [RINGS] (HQ) (EX) (IP) (TR) (BY)
type Setup struct {
	Rotors    []string
	Positions string
	Rings     string // empty means every ring at the first symbol
	Plugboard string
}

// IsSetupLine reports whether line starts a new message group.
func IsSetupLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "*")
}

// ParseSetup parses a setup line for a machine with the given slot count.
func ParseSetup(line string, slots int) (Setup, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "*") {
		return Setup{}, failure.Invalid("setup", "setup line must start with '*': %q", line)
	}
	tokens := strings.Fields(trimmed[1:])
	if len(tokens) < slots+1 {
		return Setup{}, failure.Invalid("setup", "need %d rotor names and a setting, got %q", slots, trimmed)
	}

	s := Setup{
		Rotors:    append([]string(nil), tokens[:slots]...),
		Positions: tokens[slots],
	}
	for _, name := range s.Rotors {
		if strings.HasPrefix(name, "(") {
			return Setup{}, failure.Invalid("setup", "plugboard cycle %q where a rotor name belongs", name)
		}
	}
	if strings.HasPrefix(s.Positions, "(") {
		return Setup{}, failure.Invalid("setup", "missing rotor setting in %q", trimmed)
	}

	rest := tokens[slots+1:]
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "(") {
		s.Rings = rest[0]
		rest = rest[1:]
	}
	for _, tok := range rest {
		if !cycleToken.MatchString(tok) {
			return Setup{}, failure.Invalid("setup", "malformed plugboard cycle %q", tok)
		}
	}
	s.Plugboard = strings.Join(rest, " ")
	return s, nil
}

// Apply configures m: rotors, positions, rings and plugboard. Everything is
// checked before the machine is touched, so a rejected setup leaves m as it
// was.
func (s Setup) Apply(m *machine.Machine) error {
	alpha := m.Alphabet()
	want := m.NumRotors() - 1

	check := func(what, v string) error {
		runes := []rune(v)
		if len(runes) != want {
			return failure.Invalid("setup", "%s %q has %d symbols, need %d", what, v, len(runes), want)
		}
		for _, r := range runes {
			if !alpha.Contains(r) {
				return failure.Invalid("setup", "%s %q: symbol %q not in alphabet", what, v, r)
			}
		}
		return nil
	}
	if err := check("setting", s.Positions); err != nil {
		return err
	}
	rings := s.Rings
	if rings == "" {
		first := alpha.MustSymbol(0)
		rings = strings.Repeat(string(first), want)
	}
	if err := check("ring setting", rings); err != nil {
		return err
	}
	plugboard, err := permutation.New(s.Plugboard, alpha)
	if err != nil {
		return err
	}

	if err := m.InsertRotors(s.Rotors); err != nil {
		return err
	}
	if err := m.SetRotors(s.Positions); err != nil {
		return err
	}
	if err := m.SetRings(rings); err != nil {
		return err
	}
	if err := m.SetPlugboard(plugboard); err != nil {
		return err
	}
	if !plugboard.Involution() {
		logging.New("config").Warn("plugboard is not an involution", "plugboard", s.Plugboard)
	}
	return nil
}
