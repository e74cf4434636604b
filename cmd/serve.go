package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"idfctl/internal/mcpserver"
	"idfctl/pkg/logging"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configuration engine over MCP",
	Long: `Starts an SSE server exposing the configuration engine as MCP tools, so
AI assistants and other MCP clients can list apps, validate combinations,
resolve keys and generate matrices against the live configuration.

The server runs until interrupted (Ctrl+C).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	res, err := loadConfiguration()
	if err != nil {
		return err
	}

	srv := mcpserver.New(mcpserver.Config{
		Host: serveHost,
		Port: servePort,
	}, rootCmd.Version, res, newResolver(res))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s (SSE)\n", srv.Endpoint())
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration source: %s (%s strategy)\n", res.Path, res.Strategy)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logging.Info("serve", "received signal %s, shutting down", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host interface to bind the SSE server to")
	serveCmd.Flags().IntVar(&servePort, "port", 8090, "Port to bind the SSE server to")
}
