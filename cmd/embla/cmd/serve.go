/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/embla/pkg/api"
	"github.com/ssargent/embla/pkg/config"
	"github.com/ssargent/embla/pkg/storage"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the Embla REST API server over an archive.

Configuration is read from the config file when one exists; command line
flags override file values. Without an API key the API is open.

Examples:
  embla serve --port=8080
  embla serve --api-key=mysecretkey --data-dir=./data --bind=0.0.0.0`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			cmd.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		logger, err := buildLogger(cfg.Logging.Level)
		if err != nil {
			cmd.Printf("Error building logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			cmd.Printf("Error creating data dir: %v\n", err)
			os.Exit(1)
		}
		archive, err := storage.Open(filepath.Join(cfg.DataDir, "archive"))
		if err != nil {
			cmd.Printf("Error opening archive: %v\n", err)
			os.Exit(1)
		}
		defer archive.Close()

		serverConfig := api.ServerConfig{
			Port:   cfg.Port,
			Bind:   cfg.Bind,
			APIKey: cfg.Security.APIKey,
		}

		if err := api.StartServer(archive, serverConfig, logger); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key protecting the API (empty leaves it open)")
	serveCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
	serveCmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// resolveConfig loads the config file when present and applies flag
// overrides on top.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	var cfg *config.Config
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	// Flags only win when explicitly set
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("bind") {
		cfg.Bind, _ = cmd.Flags().GetString("bind")
	}
	if cmd.Flags().Changed("api-key") {
		cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

// buildLogger builds a production zap logger at the configured level. An
// empty level means info.
func buildLogger(level string) (*zap.Logger, error) {
	zapLevel := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zapLevel = parsed
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	return zapConfig.Build()
}
