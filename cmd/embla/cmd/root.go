/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/embla/pkg/storage"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "embla",
	Short: "Embla - Strand Archive",
	Long: `Embla is a strand archive: growable byte strands with aligned
32/64-bit views, snapshot serialization and a REST API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global data directory flag
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the archive")
}

// openArchive opens the archive under the data-dir flag, creating the
// directory when missing.
func openArchive(cmd *cobra.Command) (*storage.Archive, error) {
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return storage.Open(filepath.Join(dataDir, "archive"))
}
