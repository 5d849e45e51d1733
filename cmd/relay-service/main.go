package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"noterelay/internal/config"
	"noterelay/internal/constants"
	"noterelay/internal/logger"
	"noterelay/pkg/logging"
)

var (
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     constants.ServiceName,
		Short:   "Relay Misskey webhooks to Discord",
		Long:    "Relay Service accepts Misskey webhook events and forwards notes and abuse reports to Discord webhooks",
		Version: constants.Version,
		Args:    cobra.ArbitraryArgs,
		RunE:    serveCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (optional)")

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [listen-addr...]",
		Short: "Start the relay service",
		Long:  "Start the relay service. Each listen address (host:port) gets its own listener; without arguments the configured addresses are used.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}

			if len(args) > 0 {
				cfg.Server.ListenAddrs = args
			}

			log, err := logger.New(cfg.Logging, constants.ServiceName)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.InfowCtx(ctx, "Starting Relay Service", "version", constants.Version)

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.Fatalf("Failed to initialize application: %v", err)
			}

			if err := app.Run(ctx); err != nil {
				log.ErrorwCtx(ctx, "Application error", "error", err)
				return err
			}
			return nil
		},
	}
}
