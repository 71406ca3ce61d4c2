package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/habitplan/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/habitplan/internal/core/domain"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Starts the HTTP API on server.addr (or --addr).

Routes:
  PATCH  /api/vote                 {chatId, messageId, type}
  GET    /api/vote?chatId=
  GET    /api/document?id=         all versions
  GET    /api/document/by-chat?chatId=
  POST   /api/document?id=|chatId= {title, kind, content}
  DELETE /api/document?id=&timestamp=
  GET    /api/todos?chatId=
  POST   /api/todos/complete       {chatId, id}
  POST   /api/todos/edit           {chatId, id, originalText, newText}
  GET    /api/messages?chatId=
  POST   /api/messages             {chatId, role, content}
  POST   /api/ask                  {chatId, question}

Todo edits replace the item's action line (lineText); continuation lines stay.
Requests act as the X-User-ID header's user, or as --user when absent.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if voteService == nil {
		return errors.New("vote service not configured")
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Vote:     voteService,
		Todo:     todoService,
		Document: documentService,
		Message:  messageService,
		Coach:    coachService,
	}, currentUser())
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" && appSettings != nil {
		addr = appSettings.Server.Addr
	}
	if addr == "" {
		addr = domain.DefaultServerAddr
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(ctx, addr)
}
