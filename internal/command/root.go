// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/suffragio/suffragio/internal/config"
	"github.com/suffragio/suffragio/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	configFilePath := filepath.Join(xdg.ConfigHome, "suffragio.yaml")
	cmd := &cobra.Command{
		Use:          "suffragio [command] [flags]",
		Short:        "The voter registration and login web application",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			// A local .env can carry SUFFRAGIO_* overrides during development.
			_ = godotenv.Load()

			cfg, err := config.Load(configFilePath, cmd.Flags().Changed("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration file: %w", err)
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded",
				slog.String("web_address", cfg.WebAddress),
				slog.String("db_filepath", cfg.DBFilepath),
			)
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		serveCommand(),
		voterCommand(),
	)

	return cmd
}
