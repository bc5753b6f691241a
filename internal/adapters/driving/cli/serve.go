package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/api"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

var serveAddr string

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server exposing search, chunking and persona
analysis over REST.

The server listens until interrupted (Ctrl+C) and shuts down gracefully.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to configured api.listen_addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if indexService == nil || statusService == nil {
		return fmt.Errorf("services not initialised")
	}

	addr := serveAddr
	if addr == "" {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		addr = settings.API.ListenAddr
	}

	server := api.NewServer(addr, indexService, rankingService, ingestService, statusService)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen()
	}()

	cmd.Printf("Listening on %s\n", addr)

	select {
	case <-ctx.Done():
		logger.Info("shutting down API server")
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		// Drain the listen result after shutdown.
		if err := <-errCh; err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
