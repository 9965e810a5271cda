package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const axle = "* B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)"

var defaultConf = filepath.Join("..", "..", "internal", "config", "default.conf")

// execute runs the command tree in-process with stdin set to input.
func execute(t *testing.T, input string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert_Stdin(t *testing.T) {
	input := axle + "\nFROM HIS SHOULDER HIAWATHA\n\n" + axle + "\nQVPQS OKOIL PUBKJ ZPISF XDW\n"
	out, _, err := execute(t, input, defaultConf)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "QVPQS OKOIL PUBKJ ZPISF XDW\n\nFROMH ISSHO ULDER HIAWA THA\n"
	if out != want {
		t.Errorf("output:\n%q\nwant:\n%q", out, want)
	}
}

func TestConvert_Files(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "msg.in", axle+"\nFROMHIS\n")
	outPath := filepath.Join(dir, "msg.out")

	if _, _, err := execute(t, "", defaultConf, in, outPath, "--group", "0"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "QVPQSOK\n" {
		t.Errorf("output file = %q", got)
	}
}

func TestConvert_YAMLConfig(t *testing.T) {
	conf := filepath.Join("..", "..", "internal", "config", "testdata", "small.yaml")
	out, _, err := execute(t, "* R1 F1 M1 AA\nABCDABCD\n", conf)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(strings.ReplaceAll(strings.TrimSpace(out), " ", "")) != 8 {
		t.Errorf("output = %q", out)
	}
}

func TestConvert_VerboseLine(t *testing.T) {
	_, stderr, err := execute(t, axle+"\nFRO\n", defaultConf, "--verbose")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(stderr, "[AXLF] F -> F -> Q") {
		t.Errorf("trace missing first step:\n%s", stderr)
	}
	if n := strings.Count(stderr, "\n"); n != 3 {
		t.Errorf("trace has %d lines, want 3:\n%s", n, stderr)
	}
}

func TestConvert_VerboseTable(t *testing.T) {
	_, stderr, err := execute(t, axle+"\nFRO\n", defaultConf, "-v", "--trace-format", "table")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"ROTORS", "AXLF", "AXLH"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in trace table:\n%s", want, stderr)
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"no config", "", nil, "arg"},
		{"missing config", "", []string{filepath.Join(dir, "none.conf")}, "read config"},
		{"message first", "HELLO\n", []string{defaultConf}, "line 1"},
		{"bad setup", "* B Beta III IV I AX\n", []string{defaultConf}, "setting"},
		{"bad trace format", axle + "\nA\n", []string{defaultConf, "-v", "--trace-format", "xml"}, "trace format"},
		{"bad log level", "", []string{defaultConf, "--log-level", "loud"}, "log level"},
		{"bad log format", "", []string{defaultConf, "--log-format", "xml"}, "log format"},
		{"missing input", "", []string{defaultConf, filepath.Join(dir, "none.in")}, "open input"},
	}
	for _, tc := range tests {
		_, _, err := execute(t, tc.input, tc.args...)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q should mention %q", tc.name, err, tc.want)
		}
	}
}

func TestRotors_Markdown(t *testing.T) {
	out, _, err := execute(t, "", "rotors")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"26 symbols", "5 slots, 3 pawls", "| Name", "Gamma", "2 reflectors, 2 fixed, 8 moving"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRotors_ASCIIAndWidth(t *testing.T) {
	out, _, err := execute(t, "", "rotors", "--format", "ascii", "--width", "12")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "───") || !strings.Contains(out, "...") {
		t.Errorf("expected a truncated box table:\n%s", out)
	}
}

func TestRotors_YAML(t *testing.T) {
	conf := filepath.Join("..", "..", "internal", "config", "testdata", "small.conf")
	out, _, err := execute(t, "", "rotors", "--config", conf, "--yaml")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"alphabet: ABCD", "name: M2", "notches: AB", "kind: fixed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", axle+"\nFROMHISSHOULDERHIAWATHA\n")
	b := writeFile(t, dir, "b.msg", axle+"\nQVPQSOKOILPUBKJZPISFXDW\n")
	outDir := filepath.Join(dir, "out")

	if _, _, err := execute(t, "", "batch", "--out-dir", outDir, "--parallel", "2", a, b); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for name, want := range map[string]string{
		"a.out": "QVPQS OKOIL PUBKJ ZPISF XDW\n",
		"b.out": "FROMH ISSHO ULDER HIAWA THA\n",
	} {
		got, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestBatch_Failure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", axle+"\nABC\n")
	bad := writeFile(t, dir, "bad.txt", "NOSETUP\n")

	_, _, err := execute(t, "", "batch", "--out-dir", filepath.Join(dir, "out"), good, bad)
	if err == nil || !strings.Contains(err.Error(), "bad.txt") {
		t.Fatalf("batch error = %v, want one naming bad.txt", err)
	}

	if _, _, err := execute(t, "", "batch", good); err == nil {
		t.Error("batch without --out-dir should fail")
	}
}

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		"msgs/a.txt":    "out/a.out",
		"b":             "out/b.out",
		"c.tar.gz":      "out/c.tar.out",
		"/abs/dir/d.in": "out/d.out",
	}
	for in, want := range cases {
		if got := outputPath("out", in); got != filepath.FromSlash(want) {
			t.Errorf("outputPath(%q) = %q, want %q", in, got, want)
		}
	}
}
