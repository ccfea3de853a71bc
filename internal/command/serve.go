package command

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/suffragio/suffragio/internal/app"
	"github.com/suffragio/suffragio/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the voter registration and login web app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			grp, ctx := errgroup.WithContext(cmd.Context())

			listener, err := server.Listen(ctx, cfg.WebAddress)
			if err != nil {
				return err
			}

			appServer := app.New(cfg, logger, store)

			logger.InfoContext(ctx,
				"starting app server...",
				slog.String("address", cfg.WebAddress),
			)
			server.Serve(ctx, grp, appServer.Server, listener, server.ShutdownTimeout)
			return grp.Wait()
		},
	}
}
