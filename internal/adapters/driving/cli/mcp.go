package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can read and
update your todo lists.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools: list_todos, complete_todo, edit_todo, upvote, get_document,
extract_plans, add_message and, with a configured model, ask.

Examples:
  # Stdio mode (default)
  habitplan mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  habitplan mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "habitplan": {
        "command": "/path/to/habitplan",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if todoService == nil {
		return errors.New("todo service not configured")
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Todo:     todoService,
		Vote:     voteService,
		Document: documentService,
		Message:  messageService,
		Plan:     planService,
		Coach:    coachService,
	}

	server, err := mcp.NewServer(ports, currentUser())
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s/mcp\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
