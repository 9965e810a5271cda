package config

import (
	_ "embed"
)

//go:embed default.conf
var defaultConf string

// Default returns the built-in configuration: the historical rotors I-VIII,
// the fixed Beta and Gamma rotors and the thin reflectors B and C, in a
// five-slot machine with three pawls.
func Default() *Config {
	c, err := ParseClassic(defaultConf)
	if err != nil {
		panic("config: embedded default.conf: " + err.Error())
	}
	return c
}
