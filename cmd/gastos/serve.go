package main

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gastos/internal/cli"
	"gastos/internal/core"
	apphttp "gastos/internal/http"
	"gastos/internal/log"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("port", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	return withLedger(cmd, func(l *cli.Ledger) error {
		logger := l.Logger.WithComponent(log.ComponentApp)
		port := l.Config.Port
		if p, _ := cmd.Flags().GetString("port"); p != "" {
			port = p
		}

		if err := l.Initialize(ctx); err != nil {
			if !core.IsUnavailable(err) {
				return err
			}
			logger.Warn("Ledger store unavailable, serving degraded", log.FieldStore, l.StoreName(), log.FieldError, err)
		}

		srv := apphttp.NewServer(":"+port, apphttp.AppState{
			Ledger:       l.LedgerService,
			Logger:       l.Logger.WithComponent(log.ComponentHTTP),
			MaxBodyBytes: int64(l.Config.MaxBodyBytes),
		}, l.Config.ReadTimeout)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("Starting gastos server", log.FieldOperation, log.OpStartup, "port", port, log.FieldStore, l.StoreName())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			return cli.GracefulShutdown(gctx, logger, l.Config.ShutdownTimeout, srv.Shutdown)
		})

		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info("Server stopped gracefully")
		return nil
	})
}
