package alphabet

import (
	"errors"
	"testing"

	"enigma/internal/failure"
)

func TestNew_Size(t *testing.T) {
	a, err := New("ABCD")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Size() != 4 {
		t.Errorf("Size() = %d, want 4", a.Size())
	}
	if a.String() != "ABCD" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestNew_Rejects(t *testing.T) {
	for _, chars := range []string{"ABCA", "AB*C", "A(B", "AB)", "", "A B", "AB\t", "A\u00a0B"} {
		_, err := New(chars)
		if !errors.Is(err, failure.ErrInvalidConfiguration) {
			t.Errorf("New(%q) error = %v, want invalid configuration", chars, err)
		}
	}
}

func TestContains(t *testing.T) {
	a := MustNew("ABCabc012")
	for _, r := range "Aa0" {
		if !a.Contains(r) {
			t.Errorf("Contains(%q) = false", r)
		}
	}
	for _, r := range "Z9" {
		if a.Contains(r) {
			t.Errorf("Contains(%q) = true", r)
		}
	}
}

func TestIndexSymbol(t *testing.T) {
	a := MustNew("ABCabc012")
	tests := []struct {
		sym rune
		idx int
	}{
		{'A', 0}, {'b', 4}, {'c', 5}, {'2', 8},
	}
	for _, tc := range tests {
		i, err := a.Index(tc.sym)
		if err != nil || i != tc.idx {
			t.Errorf("Index(%q) = %d, %v; want %d", tc.sym, i, err, tc.idx)
		}
		r, err := a.Symbol(tc.idx)
		if err != nil || r != tc.sym {
			t.Errorf("Symbol(%d) = %q, %v; want %q", tc.idx, r, err, tc.sym)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	a := MustNew(Upper)
	for _, r := range Upper {
		i, err := a.Index(r)
		if err != nil {
			t.Fatalf("Index(%q): %v", r, err)
		}
		if got := a.MustSymbol(i); got != r {
			t.Errorf("Symbol(Index(%q)) = %q", r, got)
		}
	}
}

func TestErrors(t *testing.T) {
	a := MustNew("ABC")
	if _, err := a.Index('Z'); !errors.Is(err, failure.ErrInvalidSymbol) {
		t.Errorf("Index('Z') error = %v", err)
	}
	for _, i := range []int{-1, 3, 100} {
		if _, err := a.Symbol(i); !errors.Is(err, failure.ErrIndexOutOfRange) {
			t.Errorf("Symbol(%d) error = %v", i, err)
		}
	}
}

func TestMustSymbol_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustNew("AB").MustSymbol(2)
}
