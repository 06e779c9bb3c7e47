package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/status-im/market-dashboard/config"
	"github.com/status-im/market-dashboard/core"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "market-dashboard",
	Short: "Live cryptocurrency market dashboard",

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("failed to load .env")
		}

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
			level = log.InfoLevel
		}
		log.SetLevel(level)
		return nil
	},

	// serve is the default
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll CoinGecko and serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		app, err := core.Setup(ctx, cfg)
		if err != nil {
			return err
		}

		if err := app.StartAll(ctx); err != nil {
			app.StopAll()
			return err
		}

		<-ctx.Done()
		log.Info("Received shutdown signal, stopping services...")
		app.StopAll()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("cannot execute command")
	}
}
