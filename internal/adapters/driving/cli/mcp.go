package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-assist/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [url]",
	Short: "Start the MCP server for a website",
	Long: `Start a Model Context Protocol server that answers questions about the
website at url. The crawl starts immediately and tools wait for it.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  sercha-assist mcp serve https://example.com

  # HTTP mode (for MCP Inspector, remote access)
  sercha-assist mcp serve https://example.com --port 8080`,
	Args: cobra.ExactArgs(1),
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Duration("wait", 30*time.Second, "how long resource reads wait for the crawl")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	wait, err := cmd.Flags().GetDuration("wait")
	if err != nil {
		return fmt.Errorf("getting wait flag: %w", err)
	}

	if sessionService == nil {
		return errNotConfigured
	}

	id, assistant, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer sessionService.Close(id) //nolint:errcheck // server is exiting
	assistant.Activate()

	ports := &mcp.Ports{
		Assistant:    assistant,
		ReadyTimeout: wait,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
