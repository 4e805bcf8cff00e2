package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/autoemporium/showroom-assistant/internal/bootstrap"
	"github.com/autoemporium/showroom-assistant/internal/server"
	logx "github.com/autoemporium/showroom-assistant/pkg/logger"
)

var serveOffline bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background memory worker",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveOffline, "offline", false, "start without GEMINI_API_KEY and answer with canned replies")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if !serveOffline {
		if err := appCfg.RequireOracle(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := bootstrap.NewContainer(ctx, appCfg, bootstrap.Options{AsyncMemory: true})
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logx.Warn().Err(err).Msg("shutdown left connections open")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(appCfg.HTTP, c.Runner).Run(gctx)
	})
	if c.MemoryWorker != nil {
		g.Go(func() error {
			return c.MemoryWorker.Run(gctx)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logx.Info().Msg("showroom assistant stopped")
	return nil
}
