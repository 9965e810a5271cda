// enigma simulates rotor cipher machines.
//
// Usage:
//
//	enigma CONFIG [INPUT [OUTPUT]]        convert a message stream
//	enigma rotors [--config=<path>]       list the rotor catalog
//	enigma batch --out-dir=<dir> FILE...  convert many streams in parallel
//	enigma serve [--config=<path>]        MCP server over stdio
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
