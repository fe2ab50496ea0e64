/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/embla/pkg/api"
	"github.com/ssargent/embla/pkg/config"
	"github.com/ssargent/embla/pkg/storage"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap and start the Embla server",
	Long: `Bootstrap Embla by creating a configuration with a generated API key
if one doesn't exist, then start the REST API server. This is the
recommended way to get Embla running.

Examples:
  embla up
  embla up --data-dir ./mydata --port 9000
  embla up --config ./custom-config.yaml --print-keys`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		configPath, _ := cmd.Flags().GetString("config")
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error

		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading existing config: %v\n", err)
				os.Exit(1)
			}
			cmd.Printf("✅ Loaded existing configuration from %s\n", configPath)
		} else {
			cmd.Printf("🔧 First run detected. Bootstrapping Embla...\n")

			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				cmd.Printf("Error bootstrapping config: %v\n", err)
				os.Exit(1)
			}

			cmd.Printf("✅ Configuration created at %s\n", configPath)

			if printKeys {
				cmd.Printf("\n🔑 Generated API Key: %s\n", cfg.Security.APIKey)
				cmd.Printf("\n⚠️  Store this key securely! It is also saved in %s\n", configPath)
			}
		}

		// Override config with command line flags if provided
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
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

		cmd.Printf("🚀 Starting Embla server on %s:%d\n", cfg.Bind, cfg.Port)
		cmd.Printf("📁 Data directory: %s\n", cfg.DataDir)

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
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	upCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	upCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
	upCmd.Flags().Bool("print-keys", false, "Print the generated API key to console")
}
