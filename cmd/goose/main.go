package main

import (
	"fmt"
	"os"

	"goose/cmd/goose/profile"
	"goose/cmd/goose/session"
	"goose/internal/cli"
	"goose/internal/config"
	"goose/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	var (
		configPath string
		logLevel   string
	)
	rootCmd := &cobra.Command{
		Use:           "goose",
		Short:         "goose runs agent sessions from validated profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cli.ConfigPath(cmd))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger.Init(cfg.LogLevel, logLevel)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(profile.Cmd)
	rootCmd.AddCommand(session.Cmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
