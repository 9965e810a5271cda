package machine_test

import (
	"testing"

	"enigma/internal/alphabet"
	"enigma/internal/machine"
	"enigma/internal/permutation"
	"enigma/internal/rotor"
)

var upper = alphabet.MustNew(alphabet.Upper)

type rotorDef struct {
	name    string
	kind    rotor.Kind
	notches string
	cycles  string
}

var historic = []rotorDef{
	{"I", rotor.Moving, "Q", "(AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)"},
	{"II", rotor.Moving, "E", "(FIXVYOMW) (CDKLHUP) (ESZ) (BJ) (GR) (NT) (A) (Q)"},
	{"III", rotor.Moving, "V", "(ABDHPEJT) (CFLVMZOYQIRWUKXSG) (N)"},
	{"IV", rotor.Moving, "J", "(AEPLIYWCOXMRFZBSTGJQNH) (DV) (KU)"},
	{"V", rotor.Moving, "Z", "(AVOLDRWFIUQ)(BZKSMNHYC) (EGTJPX)"},
	{"VI", rotor.Moving, "ZM", "(AJQDVLEOZWIYTS) (CGMNHFUX) (BPRK)"},
	{"Beta", rotor.Fixed, "", "(ALBEVFCYODJWUGNMQTZSKPR) (HIX)"},
	{"Gamma", rotor.Fixed, "", "(AFNIRLBSQWVXGUZDKMTPCOYJHE)"},
	{"B", rotor.Reflector, "", "(AE) (BN) (CK) (DQ) (FU) (GY) (HW) (IJ) (LO) (MP) (RX) (SZ) (TV)"},
	{"C", rotor.Reflector, "", "(AR) (BD) (CO) (EJ) (FN) (GT) (HK) (IV) (LM) (PW) (QZ) (SX) (UY)"},
	{"UKW-B", rotor.Reflector, "", "(AY) (BR) (CU) (DH) (EQ) (FS) (GL) (IP) (JX) (KN) (MO) (TZ) (VW)"},
}

func buildCatalog(t *testing.T, alpha *alphabet.Alphabet, defs []rotorDef) *rotor.Catalog {
	t.Helper()
	var rotors []*rotor.Rotor
	for _, d := range defs {
		p, err := permutation.New(d.cycles, alpha)
		if err != nil {
			t.Fatalf("rotor %s: %v", d.name, err)
		}
		r, err := rotor.New(d.name, d.kind, p, d.notches)
		if err != nil {
			t.Fatalf("rotor %s: %v", d.name, err)
		}
		rotors = append(rotors, r)
	}
	c, err := rotor.NewCatalog(rotors...)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

// setup returns a machine with the named rotors at positions and the given plugboard.
func setup(t *testing.T, pawls int, names []string, positions, plugs string, opts ...machine.Option) *machine.Machine {
	t.Helper()
	m, err := machine.New(upper, len(names), pawls, buildCatalog(t, upper, historic), opts...)
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	if err := m.InsertRotors(names); err != nil {
		t.Fatalf("InsertRotors: %v", err)
	}
	if err := m.SetRotors(positions); err != nil {
		t.Fatalf("SetRotors: %v", err)
	}
	if err := m.SetPlugboard(permutation.MustNew(plugs, upper)); err != nil {
		t.Fatalf("SetPlugboard: %v", err)
	}
	return m
}

func convert(t *testing.T, m *machine.Machine, msg string) string {
	t.Helper()
	out, err := m.ConvertString(msg)
	if err != nil {
		t.Fatalf("ConvertString(%q): %v", msg, err)
	}
	return out
}

// press advances the machine by one keypress and returns the new window.
func press(m *machine.Machine) string {
	m.Convert(0)
	return m.Positions()
}
