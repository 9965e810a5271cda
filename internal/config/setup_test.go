package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"enigma/internal/failure"
	"enigma/internal/machine"
)

func defaultMachine(t *testing.T) *machine.Machine {
	t.Helper()
	model, err := Default().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := model.NewMachine()
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m
}

func TestParseSetup(t *testing.T) {
	tests := []struct {
		line string
		want Setup
	}{
		{
			"* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)",
			Setup{Rotors: []string{"B", "Beta", "III", "IV", "I"}, Positions: "AXLE", Plugboard: "(HQ) (EX) (IP) (TR) (BY)"},
		},
		{
			"  *B Beta III IV I AXLE",
			Setup{Rotors: []string{"B", "Beta", "III", "IV", "I"}, Positions: "AXLE"},
		},
		{
			"* C Gamma II V VI QRST BCDE (AB)(CD)",
			Setup{Rotors: []string{"C", "Gamma", "II", "V", "VI"}, Positions: "QRST", Rings: "BCDE", Plugboard: "(AB)(CD)"},
		},
	}
	for _, tc := range tests {
		got, err := ParseSetup(tc.line, 5)
		if err != nil {
			t.Fatalf("ParseSetup(%q): %v", tc.line, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseSetup(%q) mismatch (-want +got):\n%s", tc.line, diff)
		}
	}
}

func TestParseSetup_Rejects(t *testing.T) {
	for _, line := range []string{
		"B Beta III IV I AXLE",
		"* B Beta III IV",
		"* B Beta III IV (AB) AXLE",
		"* B Beta III IV I (AB)",
		"* B Beta III IV I AXLE AAAA BBBB",
		"* B Beta III IV I AXLE (AB) CD",
	} {
		if _, err := ParseSetup(line, 5); !errors.Is(err, failure.ErrInvalidConfiguration) {
			t.Errorf("ParseSetup(%q) error = %v", line, err)
		}
	}
}

func TestIsSetupLine(t *testing.T) {
	if !IsSetupLine("  * B") || IsSetupLine("HELLO") || IsSetupLine("") {
		t.Error("IsSetupLine mismatch")
	}
}

func TestSetup_Apply(t *testing.T) {
	m := defaultMachine(t)
	s, err := ParseSetup("* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)", m.NumRotors())
	if err != nil {
		t.Fatalf("ParseSetup: %v", err)
	}
	if err := s.Apply(m); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := m.ConvertString("FROMHISSHOULDERHIAWATHA")
	if err != nil {
		t.Fatalf("ConvertString: %v", err)
	}
	if got != "QVPQSOKOILPUBKJZPISFXDW" {
		t.Errorf("got %q", got)
	}

	// A second setup resets positions and rings from scratch.
	if err := s.Apply(m); err != nil {
		t.Fatalf("re-Apply: %v", err)
	}
	if m.Positions() != "AXLE" {
		t.Errorf("Positions() = %q after re-apply", m.Positions())
	}
	for i := 1; i < m.NumRotors(); i++ {
		if m.Rotor(i).Ring() != 0 {
			t.Errorf("slot %d ring = %d", i, m.Rotor(i).Ring())
		}
	}
}

func TestSetup_ApplyRings(t *testing.T) {
	m := defaultMachine(t)
	s, err := ParseSetup("* B Beta I II III AAAA ABCD", m.NumRotors())
	if err != nil {
		t.Fatalf("ParseSetup: %v", err)
	}
	if err := s.Apply(m); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	var rings []int
	for i := 1; i < m.NumRotors(); i++ {
		rings = append(rings, m.Rotor(i).Ring())
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, rings); diff != "" {
		t.Errorf("rings (-want +got):\n%s", diff)
	}
}

func TestSetup_ApplyRejectsWithoutMutation(t *testing.T) {
	m := defaultMachine(t)
	good, _ := ParseSetup("* B Beta III IV I AXLE (HQ)", m.NumRotors())
	if err := good.Apply(m); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	tests := []struct {
		line string
		kind error
	}{
		{"* B Beta III IV I AXL", failure.ErrInvalidConfiguration},
		{"* B Beta III IV I AXLEE", failure.ErrInvalidConfiguration},
		{"* B Beta III IV I AX1E", failure.ErrInvalidConfiguration},
		{"* B Beta III IV I AXLE AB", failure.ErrInvalidConfiguration},
		{"* B Beta III IV I AXLE (HQ) (QA)", failure.ErrInvalidConfiguration},
		{"* B Beta III IV IX AAAA", failure.ErrUnknownIdentifier},
		{"* Beta B III IV I AAAA", failure.ErrInvalidConfiguration},
		{"* B Beta III IV Gamma AAAA", failure.ErrInvalidConfiguration},
	}
	for _, tc := range tests {
		s, err := ParseSetup(tc.line, m.NumRotors())
		if err != nil {
			t.Fatalf("ParseSetup(%q): %v", tc.line, err)
		}
		if err := s.Apply(m); !errors.Is(err, tc.kind) {
			t.Errorf("Apply(%q) error = %v, want %v", tc.line, err, tc.kind)
		}
		if m.Positions() != "AXLE" || m.Rotor(4).Name() != "I" || m.Plugboard().Cycles() != "(HQ)" {
			t.Errorf("Apply(%q) changed the machine: %s", tc.line, m.Positions())
		}
	}
}
