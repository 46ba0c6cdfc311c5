package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"safenlt/internal/logging"
	mcpserver "safenlt/internal/mcp"
	"safenlt/internal/store"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveFlags struct {
	dbPath string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio for agent integration",
	Long: `Starts an MCP server over stdin/stdout exposing the launch_network,
join_vaults and network_status tools. Progress output is suppressed because
stdout carries the protocol; diagnostics go to stderr.

The server monitors for parent process death. When the client goes away,
the server self-terminates to prevent zombie processes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.dbPath, "db", store.DefaultDBPath, "Run history DB path (empty disables recording)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logging.Init(slog.LevelInfo, rootFlags.logFormat)
	logger := logging.New("mcp")

	srv := mcpserver.NewServer()
	defer srv.Shutdown()

	if serveFlags.dbPath != "" {
		if st, err := store.Open(serveFlags.dbPath); err == nil {
			srv.Store = st
			defer st.Close()
		} else {
			logger.Warn("run history disabled", "err", err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logger.Info("starting safe-nlt MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
