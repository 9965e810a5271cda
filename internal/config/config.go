// Package config reads machine configurations and per-message setup lines
// and turns them into the alphabet, rotor catalog and machine the engine
// works with.
//
// Two configuration formats are accepted: the classic text format
//
//	ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	 5 3
//	 I MQ   (AELTPHQXRU) (BKNW) (CMOY) (DFG) (IV) (JZ) (S)
//	 B R    (AE) (BN) (CK) ...
//
// and a structured YAML or JSON document with the same content.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"enigma/internal/alphabet"
	"enigma/internal/failure"
	"enigma/internal/logging"
	"enigma/internal/machine"
	"enigma/internal/permutation"
	"enigma/internal/rotor"
)

// RotorSpec describes one catalog rotor.
type RotorSpec struct {
	Name    string     `json:"name" yaml:"name" validate:"required"`
	Kind    rotor.Kind `json:"kind" yaml:"kind" validate:"required"`
	Notches string     `json:"notches,omitempty" yaml:"notches,omitempty"`
	Cycles  string     `json:"cycles" yaml:"cycles"`
}

// Config is a parsed, not yet validated, machine description.
type Config struct {
	Alphabet string      `json:"alphabet" yaml:"alphabet" validate:"required"`
	Slots    int         `json:"slots" yaml:"slots" validate:"min=2"`
	Pawls    int         `json:"pawls" yaml:"pawls" validate:"min=0,ltfield=Slots"`
	Rotors   []RotorSpec `json:"rotors" yaml:"rotors" validate:"required,dive"`
}

var validate = validator.New()

// check runs the struct-tag rules and reports the first violation as an
// invalid configuration.
func (c *Config) check() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		v := verrs[0]
		return failure.Invalid("config", "field %s fails %q (value %v)", v.Namespace(), v.Tag(), v.Value())
	}
	return failure.Invalid("config", "%v", err)
}

// LoadFromPath reads a configuration file. The format is chosen by
// extension (.yaml/.yml, .json, .conf/.txt) or detected from content.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses configuration bytes. ext is a format hint; empty means detect:
// a leading '{' is JSON, a leading "alphabet:" key is YAML, anything else is
// the classic text format.
func Load(data []byte, ext string) (*Config, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return loadYAML(data)
	case ".json":
		return loadJSON(data)
	case ".conf", ".txt":
		return ParseClassic(string(data))
	}
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		return loadJSON(data)
	case strings.HasPrefix(trimmed, "alphabet:"), strings.HasPrefix(trimmed, "---"):
		return loadYAML(data)
	}
	return ParseClassic(string(data))
}

func loadYAML(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return &c, nil
}

func loadJSON(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config json: %w", err)
	}
	return &c, nil
}

// YAML renders c in the structured YAML format accepted by Load.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Model is a validated configuration: the alphabet, the rotor catalog and
// the machine shape. It is read-only and may back any number of machines.
type Model struct {
	Alphabet *alphabet.Alphabet
	Catalog  *rotor.Catalog
	Slots    int
	Pawls    int
}

// Build validates c and constructs its alphabet and rotor catalog.
func (c *Config) Build() (*Model, error) {
	logger := logging.New("config")

	if err := c.check(); err != nil {
		return nil, err
	}
	alpha, err := alphabet.New(c.Alphabet)
	if err != nil {
		return nil, err
	}

	rotors := make([]*rotor.Rotor, 0, len(c.Rotors))
	for _, spec := range c.Rotors {
		p, err := permutation.New(spec.Cycles, alpha)
		if err != nil {
			return nil, fmt.Errorf("rotor %s: %w", spec.Name, err)
		}
		if spec.Kind != rotor.Moving && spec.Notches != "" {
			return nil, failure.Invalid("config", "rotor %s: %s rotors have no notches", spec.Name, spec.Kind)
		}
		r, err := rotor.New(spec.Name, spec.Kind, p, spec.Notches)
		if err != nil {
			return nil, err
		}
		if r.Reflecting() && !p.Derangement() {
			logger.Warn("reflector maps a symbol to itself", "rotor", r.Name())
		}
		if r.Reflecting() && !p.Involution() {
			logger.Warn("reflector is not an involution; decryption will not invert encryption", "rotor", r.Name())
		}
		rotors = append(rotors, r)
	}
	catalog, err := rotor.NewCatalog(rotors...)
	if err != nil {
		return nil, err
	}

	counts := catalog.Count()
	if counts[rotor.Reflector] == 0 {
		return nil, failure.Invalid("config", "no reflector in catalog")
	}
	if counts[rotor.Moving] < c.Pawls {
		return nil, failure.Invalid("config", "%d pawls but only %d moving rotors", c.Pawls, counts[rotor.Moving])
	}
	logger.Debug("configuration loaded",
		"alphabet_size", alpha.Size(),
		"slots", c.Slots,
		"pawls", c.Pawls,
		"moving", counts[rotor.Moving],
		"fixed", counts[rotor.Fixed],
		"reflectors", counts[rotor.Reflector])

	return &Model{Alphabet: alpha, Catalog: catalog, Slots: c.Slots, Pawls: c.Pawls}, nil
}

// NewMachine returns an empty machine of the model's shape.
func (m *Model) NewMachine(opts ...machine.Option) (*machine.Machine, error) {
	return machine.New(m.Alphabet, m.Slots, m.Pawls, m.Catalog, opts...)
}
