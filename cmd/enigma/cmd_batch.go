package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"enigma/internal/config"
	"enigma/internal/format"
	"enigma/internal/logging"
	"enigma/internal/session"
)

type batchFlags struct {
	config   string
	outDir   string
	parallel int
	group    int
}

func newBatchCmd() *cobra.Command {
	var flags batchFlags
	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Convert several message files in parallel",
		Long: `Converts every FILE with its own machine built from one configuration and
writes the result to <out-dir>/<name>.out. Each file must start with a
setup line. The first failure stops the remaining files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "configuration file (default: built-in historical rotors)")
	f.StringVar(&flags.outDir, "out-dir", "", "output directory (required)")
	f.IntVar(&flags.parallel, "parallel", 4, "maximum files converted at once")
	f.IntVar(&flags.group, "group", format.GroupSize, "output group length (0 disables grouping)")
	_ = cmd.MarkFlagRequired("out-dir")
	return cmd
}

func runBatch(ctx context.Context, files []string, flags batchFlags) error {
	model, err := loadModel(flags.config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger := logging.New("batch").With("run_id", uuid.NewString())
	logger.Info("batch started", "files", len(files), "parallel", flags.parallel)

	g, ctx := errgroup.WithContext(ctx)
	if flags.parallel > 0 {
		g.SetLimit(flags.parallel)
	}
	for _, in := range files {
		out := outputPath(flags.outDir, in)
		g.Go(func() error {
			if err := convertFile(ctx, model, in, out, flags.group); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			logger.Debug("file converted", "input", in, "output", out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("batch done", "files", len(files))
	return nil
}

func outputPath(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".out")
}

func convertFile(ctx context.Context, model *config.Model, inPath, outPath string, group int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	m, err := model.NewMachine()
	if err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := session.New(m, session.WithGroupSize(group)).Run(ctx, in, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
