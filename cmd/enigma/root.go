package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"enigma/internal/format"
	"enigma/internal/logging"
	"enigma/internal/machine"
	"enigma/internal/session"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	logLevel    string
	logFormat   string
	verbose     bool
	traceFormat string
	group       int
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "enigma CONFIG [INPUT [OUTPUT]]",
		Short: "Rotor cipher machine simulator",
		Long: `Reads a machine configuration from CONFIG, then converts INPUT (default
stdin) to OUTPUT (default stdout). Lines starting with '*' set up the machine:

  * B Beta III IV I AXLE [RINGS] (HQ) (EX) (IP) (TR) (BY)

Every other line is converted with whitespace removed and written in groups
of five. CONFIG may be the classic text format, YAML or JSON.`,
		Args:          cobra.RangeArgs(1, 3),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(flags.logLevel)
			if err != nil {
				return err
			}
			return logging.Init(logging.Options{
				Level:  level,
				Format: flags.logFormat,
				Writer: cmd.ErrOrStderr(),
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "text", "log format (text, json)")

	f := cmd.Flags()
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "trace every converted symbol to stderr")
	f.StringVar(&flags.traceFormat, "trace-format", "auto", "trace layout: line, table, or auto (table on a terminal)")
	f.IntVar(&flags.group, "group", format.GroupSize, "output group length (0 disables grouping)")

	cmd.AddCommand(newRotorsCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

func runConvert(cmd *cobra.Command, args []string, flags rootFlags) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) > 1 {
		file, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		in = file
	}
	var out io.Writer = cmd.OutOrStdout()
	if len(args) > 2 {
		file, err := os.Create(args[2])
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	var opts []machine.Option
	var table *format.TraceTable
	if flags.verbose {
		stderr := cmd.ErrOrStderr()
		layout := flags.traceFormat
		if layout == "auto" {
			layout = "line"
			if isTerminal(stderr) {
				layout = "table"
			}
		}
		switch layout {
		case "line":
			opts = append(opts, machine.WithTracer(machine.LineTracer{W: stderr}))
		case "table":
			table = &format.TraceTable{}
			opts = append(opts, machine.WithTracer(table))
		default:
			return fmt.Errorf("unknown trace format %q (want line, table or auto)", flags.traceFormat)
		}
	}

	m, err := model.NewMachine(opts...)
	if err != nil {
		return err
	}
	p := session.New(m, session.WithGroupSize(flags.group))
	err = p.Run(cmd.Context(), in, out)
	if table != nil && table.Len() > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), table.Render(format.ASCII)+"\n")
	}
	return err
}
