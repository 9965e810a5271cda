package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"enigma/internal/format"
)

type rotorsFlags struct {
	config string
	format string
	width  int
	yaml   bool
}

func newRotorsCmd() *cobra.Command {
	var flags rotorsFlags
	cmd := &cobra.Command{
		Use:   "rotors",
		Short: "List the rotors a configuration provides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRotors(cmd, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "configuration file (default: built-in historical rotors)")
	f.StringVar(&flags.format, "format", "auto", "table format: ascii, markdown, or auto (ascii on a terminal)")
	f.IntVar(&flags.width, "width", 0, "truncate wiring to this many characters (0 = no limit)")
	f.BoolVar(&flags.yaml, "yaml", false, "print the configuration as YAML instead of a table")
	return cmd
}

func runRotors(cmd *cobra.Command, flags rotorsFlags) error {
	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	model, err := cfg.Build()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if flags.yaml {
		doc, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		_, err = out.Write(doc)
		return err
	}

	mode := format.ParseMode(flags.format)
	if flags.format == "auto" && !isTerminal(out) {
		mode = format.Markdown
	}
	fmt.Fprintf(out, "Alphabet: %s (%d symbols), %d slots, %d pawls\n\n",
		model.Alphabet, model.Alphabet.Size(), model.Slots, model.Pawls)
	fmt.Fprintln(out, format.RotorTable(model.Catalog, mode, flags.width))
	return nil
}
