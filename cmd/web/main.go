package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"github.com/de-tools/shopping-atlas/pkg/runtime/app"
	"github.com/de-tools/shopping-atlas/pkg/server"
	"github.com/de-tools/shopping-atlas/pkg/services/config"
	"github.com/de-tools/shopping-atlas/pkg/store/dataset"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the shopping trends dashboard",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (defaults and ATLAS_* environment variables apply)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	atlas, err := app.New(ctx, *cfg)
	if errors.Is(err, dataset.ErrMissingFile) || errors.Is(err, dataset.ErrMalformed) {
		logger.Fatal().Err(err).Str("dataset", cfg.Dataset.Path).Msg("cannot start without a dataset")
	}
	if err != nil {
		return err
	}
	defer atlas.Close()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	api := server.NewWebAPI(logger, server.Config{
		Addr:           addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Dependencies: server.Dependencies{
			Dashboard: atlas.Renderer,
		},
	})

	return api.Start()
}
