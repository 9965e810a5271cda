package main

import (
	"context"

	"github.com/spf13/cobra"

	"enigma/internal/logging"
	mcpserver "enigma/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type serveFlags struct {
	config string
	watch  bool
}

func newServeCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Starts an MCP server over stdin/stdout exposing configure, convert,
positions and get_events tools backed by one machine.

The server exits when its parent process goes away. With --watch the
configuration file is reloaded whenever it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "configuration file (default: built-in historical rotors)")
	f.BoolVar(&flags.watch, "watch", false, "reload the configuration file when it changes")
	return cmd
}

func runServe(cmd *cobra.Command, flags serveFlags) error {
	model, err := loadModel(flags.config)
	if err != nil {
		return err
	}
	srv := mcpserver.NewServer(model, version)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchStdin(ctx, cancel)
	if flags.watch && flags.config != "" {
		if err := srv.WatchConfig(ctx, flags.config); err != nil {
			return err
		}
	}

	logging.New("mcp").Info("starting enigma MCP server over stdio", "config", flags.config, "watch", flags.watch)
	return srv.Run(ctx, &sdkmcp.StdioTransport{})
}
