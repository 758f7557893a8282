package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"auditrag/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat API",
	Long: `Start the HTTP server and build the corpus index in the background.
Requests arriving before the index is ready are answered ungrounded.

Endpoints:
  POST /api/chat  {"message": "..."} -> {"response", "model", "sources", "scores"}
  GET  /healthz   index size and generation`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cfg, true)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The index builds in the background so the server is reachable
	// immediately; early requests see an empty corpus and degrade to
	// ungrounded answers.
	go func() {
		if _, err := p.ingest.Ingest(ctx); err != nil {
			logger.Error("background ingest failed", "error", err)
			return
		}
		p.retrieval.Invalidate()
	}()

	srv := server.New(cfg.Server.Addr, p.chat, p.corpus, p.model, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
