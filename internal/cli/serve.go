package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/smahlberg/postmind/internal/server"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the drain of in-flight generation requests.
const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start the postmind HTTP API:

  POST /api/generate          generate a post
  GET  /api/history/:user_id  a user's past posts
  GET  /api/series/:user_id   a user's series
  GET  /api/stats             pipeline timing stats
  GET  /healthz               liveness probe`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, err := getService()
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	srv := server.New(svc, collector, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
