package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"enigma/internal/config"
)

// loadModel reads and validates a configuration file; an empty path selects
// the built-in historical rotor set.
func loadModel(path string) (*config.Model, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromPath(path)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
